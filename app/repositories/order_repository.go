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
	"github.com/shoestop/backend/pkg/metrics"
)

// hexPrefixRE matches partial ObjectID input typed into the admin search box.
var hexPrefixRE = regexp.MustCompile(`^[a-fA-F0-9]{3,24}$`)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{col: database.Collection(database.ColOrders)}
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	Status string // exact status match, "" = all
	Query  string // orderNo exact, or order id exact / hex prefix
	Page   int
	Limit  int
}

// Insert persists a new order. A duplicate orderNo or duplicate
// (user, checkoutToken) surfaces as Conflict; the checkout service
// distinguishes the two by re-reading.
func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		if database.IsDup(err) {
			return apperr.Conflict("Duplicate order")
		}
		return apperr.Internal("orders: insert", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns a single order.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("orders: find by id", err)
	}
	return &o, nil
}

// FindByToken returns the prior order for an idempotent checkout replay,
// or NotFound when the token has not been used.
func (r *OrderRepository) FindByToken(ctx context.Context, user primitive.ObjectID, token string) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"user": user, "checkoutToken": token}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("orders: find by token", err)
	}
	return &o, nil
}

// ListByUser returns all of one user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, apperr.Internal("orders: list by user", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal("orders: decode list", err)
	}
	return orders, nil
}

// List returns one admin page of orders plus the total match count.
func (r *OrderRepository) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Query != "" {
		filter["$or"] = searchClauses(f.Query)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal("orders: count", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal("orders: list", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, apperr.Internal("orders: decode list", err)
	}
	return orders, total, nil
}

// searchClauses builds the $or branches for the admin search box: exact
// orderNo, exact order id, or hex prefix of the id. Prefix matching goes
// through $toString because _id is an ObjectID, not a string.
func searchClauses(q string) bson.A {
	or := bson.A{bson.M{"orderNo": q}}

	if oid, err := primitive.ObjectIDFromHex(q); err == nil {
		or = append(or, bson.M{"_id": oid})
	} else if hexPrefixRE.MatchString(q) {
		or = append(or, bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$_id"},
			"regex":   "^" + q,
			"options": "i",
		}}})
	}

	return or
}

// UpdateStatus sets the order's status and returns the updated document.
// Runs inside a transaction context when cancellation triggers restock.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	var o models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("orders: update status", err)
	}
	return &o, nil
}

// MarkRestocked flips the restocked flag; returns false when another writer
// got there first, so restock happens at most once per order.
func (r *OrderRepository) MarkRestocked(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "restocked": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"restocked": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, apperr.Internal("orders: mark restocked", err)
	}
	return res.ModifiedCount == 1, nil
}
