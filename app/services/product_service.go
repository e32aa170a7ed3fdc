package services

import (
	"context"
	"time"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/cache"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/slug"
	"github.com/shoestop/backend/pkg/upload"
)

const (
	productPageSize = 9
	productCacheTTL = 5 * time.Minute
)

func productCacheKey(s string) string { return "products:slug:" + s }

// ProductService manages the product catalog.
type ProductService struct {
	repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List returns one page of products (fixed page size 9) with pagination
// metadata. bestSelling filters when non-nil.
func (s *ProductService) List(ctx context.Context, page int, bestSelling *bool) ([]models.Product, response.Pagination, error) {
	if page < 1 {
		page = 1
	}

	products, total, err := s.repo.List(ctx, repositories.ProductListFilter{
		Page:        page,
		Limit:       productPageSize,
		BestSelling: bestSelling,
	})
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return products, response.NewPagination(page, productPageSize, total), nil
}

// GetBySlug returns one product, served from cache when possible.
func (s *ProductService) GetBySlug(ctx context.Context, sl string) (*models.Product, error) {
	var cached models.Product
	if cache.Get(productCacheKey(sl), &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(productCacheKey(sl), p, productCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("products: cache set", "error", err)
	}
	return p, nil
}

// ProductInput is the write payload for create and update. Image is the
// already-stored upload; nil on update means keep the current image.
type ProductInput struct {
	Sub           string
	Title         string
	Price         float64
	Sizes         []string
	Description   string
	IsBestSelling bool
	Stock         *int
	Image         *upload.Result
}

// Create stores a new product under a unique slug derived from the title.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	sl, err := slug.Unique(in.Title, func(candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Sub:           in.Sub,
		Title:         in.Title,
		Price:         in.Price,
		Sizes:         in.Sizes,
		Description:   in.Description,
		ImageURL:      in.Image.URL,
		ImageName:     in.Image.Name,
		Slug:          sl,
		IsBestSelling: in.IsBestSelling,
		Stock:         in.Stock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// The document was not stored; don't leave the image orphaned.
		if derr := upload.Delete(in.Image.Name); derr != nil {
			logger.WithCtx(ctx).Warn("products: orphan image cleanup", "error", derr)
		}
		return nil, err
	}
	return p, nil
}

// Update modifies a product in place. A changed title re-slugs; a new image
// replaces and deletes the old one.
func (s *ProductService) Update(ctx context.Context, sl string, in ProductInput) (*models.Product, error) {
	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}

	oldImage := p.ImageName

	if in.Title != "" && in.Title != p.Title {
		newSlug, err := slug.Unique(in.Title, func(candidate string) (bool, error) {
			if candidate == p.Slug {
				return false, nil // keeping our own slug is fine
			}
			return s.repo.SlugExists(ctx, candidate)
		})
		if err != nil {
			return nil, err
		}
		p.Title = in.Title
		p.Slug = newSlug
	}
	if in.Sub != "" {
		p.Sub = in.Sub
	}
	if in.Price > 0 {
		p.Price = in.Price
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Sizes != nil {
		p.Sizes = in.Sizes
	}
	if in.Stock != nil {
		p.Stock = in.Stock
	}
	p.IsBestSelling = in.IsBestSelling
	if in.Image != nil {
		p.ImageURL = in.Image.URL
		p.ImageName = in.Image.Name
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if in.Image != nil && oldImage != "" && oldImage != p.ImageName {
		if derr := upload.Delete(oldImage); derr != nil {
			logger.WithCtx(ctx).Warn("products: old image cleanup", "error", derr)
		}
	}

	cache.Del(productCacheKey(sl), productCacheKey(p.Slug)) //nolint:errcheck
	return p, nil
}

// Delete removes a product and its stored image.
func (s *ProductService) Delete(ctx context.Context, sl string) error {
	p, err := s.repo.Delete(ctx, sl)
	if err != nil {
		return err
	}

	if derr := upload.Delete(p.ImageName); derr != nil {
		logger.WithCtx(ctx).Warn("products: image cleanup", "error", derr)
	}
	cache.Del(productCacheKey(sl)) //nolint:errcheck
	return nil
}
