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
	"github.com/shoestop/backend/pkg/metrics"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.Collection(database.ColProducts)}
}

// ProductListFilter narrows the paginated product listing.
type ProductListFilter struct {
	Page        int
	Limit       int
	BestSelling *bool // nil = no filter
}

// Create persists a new product. Duplicate slug maps to Conflict.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Sizes == nil {
		p.Sizes = []string{}
	}

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate product")
		}
		return apperr.Internal("products: create", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns one page of products, newest first, with the total count.
func (r *ProductRepository) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := bson.M{}
	if f.BestSelling != nil {
		filter["isBestSelling"] = *f.BestSelling
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("products: count", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal("products: list", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, apperr.Internal("products: decode list", err)
	}
	return products, total, nil
}

// FindBySlug looks up a product by its slug.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("products: find by slug", err)
	}
	return &p, nil
}

// FindByID looks up a product by ObjectID.
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("products: find by id", err)
	}
	return &p, nil
}

// FindByIDs returns the products matching ids, keyed by ID. Missing ids are
// simply absent from the map; the caller decides whether that is an error.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Internal("products: find by ids", err)
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	for cur.Next(ctx) {
		var p models.Product
		if err := cur.Decode(&p); err != nil {
			return nil, apperr.Internal("products: decode", err)
		}
		cp := p
		out[p.ID] = &cp
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Internal("products: cursor", err)
	}
	return out, nil
}

// SlugExists reports whether slug is already taken.
func (r *ProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal("products: slug exists", err)
	}
	return n > 0, nil
}

// Update replaces the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	p.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate product")
		}
		return apperr.Internal("products: update", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}

// Delete removes a product by slug and returns the removed document so the
// caller can clean up its stored image.
func (r *ProductRepository) Delete(ctx context.Context, slug string) (*models.Product, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())

	var p models.Product
	err := r.col.FindOneAndDelete(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("products: delete", err)
	}
	return &p, nil
}

// DecrementStock takes qty units from a stock-tracked product. Must run
// inside the checkout transaction context.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$exists": true}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return apperr.Internal("products: decrement stock", err)
	}
	return nil
}

// IncrementStock returns qty units to a stock-tracked product, used by
// restock-on-cancel.
func (r *ProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$exists": true}},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return apperr.Internal("products: increment stock", err)
	}
	return nil
}
