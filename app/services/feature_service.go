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

const (
	featureCacheKey = "features:list"
	featureCacheTTL = 5 * time.Minute
)

// FeatureService manages the featured-items section.
type FeatureService struct {
	repo *repositories.FeatureRepository
}

func NewFeatureService(repo *repositories.FeatureRepository) *FeatureService {
	return &FeatureService{repo: repo}
}

// List returns all features newest first, cached.
func (s *FeatureService) List(ctx context.Context) ([]models.Feature, error) {
	var cached []models.Feature
	if cache.Get(featureCacheKey, &cached) {
		return cached, nil
	}

	features, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(featureCacheKey, features, featureCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("features: cache set", "error", err)
	}
	return features, nil
}

// GetBySlug returns one feature.
func (s *FeatureService) GetBySlug(ctx context.Context, sl string) (*models.Feature, error) {
	return s.repo.FindBySlug(ctx, sl)
}

// FeatureInput is the write payload. Image nil on update keeps the current
// image.
type FeatureInput struct {
	Sub         string
	Title       string
	Price       float64
	Sizes       []string
	Description string
	Image       *upload.Result
}

// Create stores a new feature with a unique slug from the title.
func (s *FeatureService) Create(ctx context.Context, in FeatureInput) (*models.Feature, error) {
	sl, err := slug.Unique(in.Title, func(candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	f := &models.Feature{
		Sub:         in.Sub,
		Title:       in.Title,
		Price:       in.Price,
		Sizes:       in.Sizes,
		Description: in.Description,
		ImageURL:    in.Image.URL,
		ImageName:   in.Image.Name,
		Slug:        sl,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if derr := upload.Delete(in.Image.Name); derr != nil {
			logger.WithCtx(ctx).Warn("features: orphan image cleanup", "error", derr)
		}
		return nil, err
	}

	cache.Del(featureCacheKey) //nolint:errcheck
	return f, nil
}

// Update modifies a feature; a new image replaces and deletes the old one.
func (s *FeatureService) Update(ctx context.Context, sl string, in FeatureInput) (*models.Feature, error) {
	f, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}

	oldImage := f.ImageName

	if in.Title != "" && in.Title != f.Title {
		newSlug, err := slug.Unique(in.Title, func(candidate string) (bool, error) {
			if candidate == f.Slug {
				return false, nil
			}
			return s.repo.SlugExists(ctx, candidate)
		})
		if err != nil {
			return nil, err
		}
		f.Title = in.Title
		f.Slug = newSlug
	}
	if in.Sub != "" {
		f.Sub = in.Sub
	}
	if in.Price > 0 {
		f.Price = in.Price
	}
	if in.Description != "" {
		f.Description = in.Description
	}
	if in.Sizes != nil {
		f.Sizes = in.Sizes
	}
	if in.Image != nil {
		f.ImageURL = in.Image.URL
		f.ImageName = in.Image.Name
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}

	if in.Image != nil && oldImage != "" && oldImage != f.ImageName {
		if derr := upload.Delete(oldImage); derr != nil {
			logger.WithCtx(ctx).Warn("features: old image cleanup", "error", derr)
		}
	}

	cache.Del(featureCacheKey) //nolint:errcheck
	return f, nil
}

// Delete removes a feature and its stored image.
func (s *FeatureService) Delete(ctx context.Context, sl string) error {
	f, err := s.repo.Delete(ctx, sl)
	if err != nil {
		return err
	}

	if derr := upload.Delete(f.ImageName); derr != nil {
		logger.WithCtx(ctx).Warn("features: image cleanup", "error", derr)
	}
	cache.Del(featureCacheKey) //nolint:errcheck
	return nil
}
