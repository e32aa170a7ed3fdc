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

// CartRepository handles database operations for the one-cart-per-user
// collection.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository() *CartRepository {
	return &CartRepository{col: database.Collection(database.ColCarts)}
}

// FindByUser returns the user's cart, or an empty unsaved cart when none
// exists yet.
func (r *CartRepository) FindByUser(ctx context.Context, user primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"user": user}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.Cart{User: user, Items: []models.CartItem{}}, nil
		}
		return nil, apperr.Internal("carts: find by user", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// Save upserts the cart keyed by user. The unique index on user makes a
// concurrent double-insert impossible.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"items":     cart.Items,
			"updatedAt": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"user":      cart.User,
			"createdAt": cart.CreatedAt,
		},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"user": cart.User}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Internal("carts: save", err)
	}
	if res.UpsertedID != nil {
		cart.ID = res.UpsertedID.(primitive.ObjectID)
	}
	return nil
}

// Clear empties the user's cart. Clearing a missing cart is a no-op.
// Runs inside the checkout transaction when called with its context.
func (r *CartRepository) Clear(ctx context.Context, user primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"user": user}, bson.M{
		"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()},
	})
	if err != nil {
		return apperr.Internal("carts: clear", err)
	}
	return nil
}
