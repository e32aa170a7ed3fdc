// Package seeders populates a fresh database with a usable starting state:
// an admin account and a small sample catalog. Every seeder is idempotent so
// `shoestop seed` can run repeatedly.
package seeders

import (
	"context"
	"fmt"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
)

// RunAll executes every seeder in order.
func RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"admin user", seedAdmin},
		{"products", seedProducts},
		{"banners", seedBanners},
		{"features", seedFeatures},
	}

	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		fmt.Printf("  seeded %s\n", s.name)
	}
	return nil
}

func seedAdmin(ctx context.Context) error {
	users := repositories.NewUserRepository()

	email := config.Get("SEED_ADMIN_EMAIL", "admin@shoestop.pk")
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !apperr.IsNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}

	return users.Create(ctx, &models.User{
		Name:       "ShoeStop Admin",
		Email:      email,
		Phone:      "+920000000000",
		Password:   hash,
		Role:       models.RoleAdmin,
		IsVerified: true,
	})
}

func intPtr(n int) *int { return &n }

func seedProducts(ctx context.Context) error {
	products := repositories.NewProductRepository()

	samples := []models.Product{
		{
			Sub:           "Running",
			Title:         "Aero Glide Runner",
			Price:         7499,
			Sizes:         []string{"7", "8", "9", "10"},
			Description:   "Lightweight mesh runner with a responsive foam sole.",
			ImageURL:      "/uploads/products/sample-aero-glide.jpg",
			ImageName:     "products/sample-aero-glide.jpg",
			Slug:          "aero-glide-runner",
			IsBestSelling: true,
			Stock:         intPtr(40),
		},
		{
			Sub:           "Casual",
			Title:         "Court Classic Low",
			Price:         5299,
			Sizes:         []string{"6", "7", "8", "9", "10", "11"},
			Description:   "Everyday low-top with a stitched leather upper.",
			ImageURL:      "/uploads/products/sample-court-classic.jpg",
			ImageName:     "products/sample-court-classic.jpg",
			Slug:          "court-classic-low",
			IsBestSelling: true,
			Stock:         intPtr(25),
		},
		{
			Sub:         "Formal",
			Title:       "Derby Heritage Brown",
			Price:       9899,
			Sizes:       []string{"8", "9", "10"},
			Description: "Hand-finished derby in burnished brown leather.",
			ImageURL:    "/uploads/products/sample-derby-heritage.jpg",
			ImageName:   "products/sample-derby-heritage.jpg",
			Slug:        "derby-heritage-brown",
		},
	}

	for i := range samples {
		exists, err := products.SlugExists(ctx, samples[i].Slug)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := products.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedBanners(ctx context.Context) error {
	sections := []struct {
		repo    *repositories.BannerRepository
		banners []models.Banner
	}{
		{
			repo: repositories.NewTrendingRepository(),
			banners: []models.Banner{{
				Heading:    "Trending This Week",
				Subheading: "The pairs everyone is wearing right now",
				BtnText:    "Shop trending",
				ImageURL:   "/uploads/trending/sample-trending.jpg",
				ImageName:  "trending/sample-trending.jpg",
				Slug:       "trending-this-week",
			}},
		},
		{
			repo: repositories.NewMostSalesRepository(),
			banners: []models.Banner{{
				Heading:    "Best Sellers",
				Subheading: "Our most ordered shoes of the season",
				BtnText:    "See best sellers",
				ImageURL:   "/uploads/mostsales/sample-mostsales.jpg",
				ImageName:  "mostsales/sample-mostsales.jpg",
				Slug:       "best-sellers",
			}},
		},
	}

	for _, s := range sections {
		for i := range s.banners {
			exists, err := s.repo.SlugExists(ctx, s.banners[i].Slug)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := s.repo.Create(ctx, &s.banners[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedFeatures(ctx context.Context) error {
	features := repositories.NewFeatureRepository()

	samples := []models.Feature{{
		Sub:         "Limited",
		Title:       "Studio Edition High",
		Price:       11999,
		Sizes:       []string{"8", "9", "10"},
		Description: "Limited studio colourway, numbered run.",
		ImageURL:    "/uploads/features/sample-studio-edition.jpg",
		ImageName:   "features/sample-studio-edition.jpg",
		Slug:        "studio-edition-high",
	}}

	for i := range samples {
		exists, err := features.SlugExists(ctx, samples[i].Slug)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := features.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}
	return nil
}
