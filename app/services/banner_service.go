package services

import (
	"context"
	"time"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/cache"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/slug"
	"github.com/shoestop/backend/pkg/upload"
)

const bannerCacheTTL = 5 * time.Minute

// BannerService manages one banner section (trending or most-sales). The
// app wires two instances over the two collections.
type BannerService struct {
	repo     *repositories.BannerRepository
	cacheKey string
}

func NewTrendingService(repo *repositories.BannerRepository) *BannerService {
	return &BannerService{repo: repo, cacheKey: "trending:list"}
}

func NewMostSalesService(repo *repositories.BannerRepository) *BannerService {
	return &BannerService{repo: repo, cacheKey: "mostsales:list"}
}

// List returns all banners newest first, cached.
func (s *BannerService) List(ctx context.Context) ([]models.Banner, error) {
	var cached []models.Banner
	if cache.Get(s.cacheKey, &cached) {
		return cached, nil
	}

	banners, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(s.cacheKey, banners, bannerCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("banners: cache set", "error", err)
	}
	return banners, nil
}

// GetBySlug returns one banner, matched case-insensitively.
func (s *BannerService) GetBySlug(ctx context.Context, sl string) (*models.Banner, error) {
	return s.repo.FindBySlug(ctx, sl)
}

// BannerInput is the write payload. Image nil on update keeps the current
// image.
type BannerInput struct {
	Heading    string
	Subheading string
	BtnText    string
	Image      *upload.Result
}

// Create stores a new banner with a unique slug from the heading.
func (s *BannerService) Create(ctx context.Context, in BannerInput) (*models.Banner, error) {
	sl, err := slug.Unique(in.Heading, func(candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	b := &models.Banner{
		Heading:    in.Heading,
		Subheading: in.Subheading,
		BtnText:    in.BtnText,
		ImageURL:   in.Image.URL,
		ImageName:  in.Image.Name,
		Slug:       sl,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if derr := upload.Delete(in.Image.Name); derr != nil {
			logger.WithCtx(ctx).Warn("banners: orphan image cleanup", "error", derr)
		}
		return nil, err
	}

	cache.Del(s.cacheKey) //nolint:errcheck
	return b, nil
}

// Update modifies a banner; a new image replaces and deletes the old one.
func (s *BannerService) Update(ctx context.Context, sl string, in BannerInput) (*models.Banner, error) {
	b, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}

	oldImage := b.ImageName

	if in.Heading != "" && in.Heading != b.Heading {
		newSlug, err := slug.Unique(in.Heading, func(candidate string) (bool, error) {
			if candidate == b.Slug {
				return false, nil
			}
			return s.repo.SlugExists(ctx, candidate)
		})
		if err != nil {
			return nil, err
		}
		b.Heading = in.Heading
		b.Slug = newSlug
	}
	if in.Subheading != "" {
		b.Subheading = in.Subheading
	}
	if in.BtnText != "" {
		b.BtnText = in.BtnText
	}
	if in.Image != nil {
		b.ImageURL = in.Image.URL
		b.ImageName = in.Image.Name
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if in.Image != nil && oldImage != "" && oldImage != b.ImageName {
		if derr := upload.Delete(oldImage); derr != nil {
			logger.WithCtx(ctx).Warn("banners: old image cleanup", "error", derr)
		}
	}

	cache.Del(s.cacheKey) //nolint:errcheck
	return b, nil
}

// Delete removes a banner and its stored image.
func (s *BannerService) Delete(ctx context.Context, sl string) error {
	b, err := s.repo.Delete(ctx, sl)
	if err != nil {
		return err
	}

	if derr := upload.Delete(b.ImageName); derr != nil {
		logger.WithCtx(ctx).Warn("banners: image cleanup", "error", derr)
	}
	cache.Del(s.cacheKey) //nolint:errcheck
	return nil
}
