package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/internal/database"
	"github.com/shoestop/backend/pkg/apperr"
)

// FeatureRepository handles database operations for Feature.
type FeatureRepository struct {
	col *mongo.Collection
}

func NewFeatureRepository() *FeatureRepository {
	return &FeatureRepository{col: database.Collection(database.ColFeatures)}
}

// Create persists a new feature. Duplicate slug maps to Conflict.
func (r *FeatureRepository) Create(ctx context.Context, f *models.Feature) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Sizes == nil {
		f.Sizes = []string{}
	}

	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate feature")
		}
		return apperr.Internal("features: create", err)
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns all features, newest first.
func (r *FeatureRepository) List(ctx context.Context) ([]models.Feature, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("features: list", err)
	}
	defer cur.Close(ctx)

	features := []models.Feature{}
	if err := cur.All(ctx, &features); err != nil {
		return nil, apperr.Internal("features: decode list", err)
	}
	return features, nil
}

// FindBySlug looks up a feature by slug.
func (r *FeatureRepository) FindBySlug(ctx context.Context, slug string) (*models.Feature, error) {
	var f models.Feature
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Feature not found")
		}
		return nil, apperr.Internal("features: find by slug", err)
	}
	return &f, nil
}

// SlugExists reports whether slug is already taken.
func (r *FeatureRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal("features: slug exists", err)
	}
	return n > 0, nil
}

// Update replaces an existing feature.
func (r *FeatureRepository) Update(ctx context.Context, f *models.Feature) error {
	f.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": f.ID}, f)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate feature")
		}
		return apperr.Internal("features: update", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Feature not found")
	}
	return nil
}

// Delete removes a feature by slug, returning the removed document.
func (r *FeatureRepository) Delete(ctx context.Context, slug string) (*models.Feature, error) {
	var f models.Feature
	err := r.col.FindOneAndDelete(ctx, bson.M{"slug": slug}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Feature not found")
		}
		return nil, apperr.Internal("features: delete", err)
	}
	return &f, nil
}
