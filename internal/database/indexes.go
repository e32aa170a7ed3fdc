package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoestop/backend/pkg/logger"
)

// EnsureIndexes creates every index the app depends on. Idempotent: creating
// an index that already exists is a no-op server-side.
//
// The partial unique index on (user, checkoutToken) is the authoritative
// idempotency guard for checkout: two concurrent submissions with the same
// token cannot both insert an order.
func EnsureIndexes(ctx context.Context) error {
	for col, models := range indexSpecs() {
		if _, err := Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("database: ensure indexes on %s: %w", col, err)
		}
	}

	logger.Info("database: indexes ensured")
	return nil
}

// indexSpecs maps each collection to its index models. Keys must match the
// BSON field names the repositories filter on.
func indexSpecs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ColUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColProducts: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "isBestSelling", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		ColTrending: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColMostSales: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColFeatures: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColCarts: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColOrders: {
			{
				Keys:    bson.D{{Key: "orderNo", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "user", Value: 1}, {Key: "checkoutToken", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{
						"checkoutToken": bson.M{"$exists": true, "$type": "string"},
					}),
			},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		ColFailedJobs: {
			{Keys: bson.D{{Key: "jobType", Value: 1}}},
			{Keys: bson.D{{Key: "failedAt", Value: -1}}},
		},
	}
}
