package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/internal/database"
	"github.com/shoestop/backend/pkg/apperr"
)

// BannerRepository handles one banner collection. The trending and
// most-sales sections share the shape but live in separate collections, so
// the app creates two instances.
type BannerRepository struct {
	col   *mongo.Collection
	label string // "Trending" | "Most sales" — used in error messages
}

func NewTrendingRepository() *BannerRepository {
	return &BannerRepository{col: database.Collection(database.ColTrending), label: "Trending item"}
}

func NewMostSalesRepository() *BannerRepository {
	return &BannerRepository{col: database.Collection(database.ColMostSales), label: "Most sales item"}
}

// Create persists a new banner. Duplicate slug maps to Conflict.
func (r *BannerRepository) Create(ctx context.Context, b *models.Banner) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate slug")
		}
		return apperr.Internal("banners: create", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns all banners, newest first.
func (r *BannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("banners: list", err)
	}
	defer cur.Close(ctx)

	banners := []models.Banner{}
	if err := cur.All(ctx, &banners); err != nil {
		return nil, apperr.Internal("banners: decode list", err)
	}
	return banners, nil
}

// FindBySlug looks up a banner case-insensitively by slug.
func (r *BannerRepository) FindBySlug(ctx context.Context, slug string) (*models.Banner, error) {
	filter := bson.M{"slug": bson.M{
		"$regex": "^" + regexp.QuoteMeta(slug) + "$", "$options": "i",
	}}

	var b models.Banner
	err := r.col.FindOne(ctx, filter).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound(r.label + " not found")
		}
		return nil, apperr.Internal("banners: find by slug", err)
	}
	return &b, nil
}

// SlugExists reports whether slug is already taken.
func (r *BannerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal("banners: slug exists", err)
	}
	return n > 0, nil
}

// Update replaces an existing banner.
func (r *BannerRepository) Update(ctx context.Context, b *models.Banner) error {
	b.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate slug")
		}
		return apperr.Internal("banners: update", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(r.label + " not found")
	}
	return nil
}

// Delete removes a banner by slug, returning the removed document so the
// caller can delete its stored image.
func (r *BannerRepository) Delete(ctx context.Context, slug string) (*models.Banner, error) {
	filter := bson.M{"slug": bson.M{
		"$regex": "^" + regexp.QuoteMeta(slug) + "$", "$options": "i",
	}}

	var b models.Banner
	err := r.col.FindOneAndDelete(ctx, filter).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound(r.label + " not found")
		}
		return nil, apperr.Internal("banners: delete", err)
	}
	return &b, nil
}
