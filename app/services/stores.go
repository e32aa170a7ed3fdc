// Package services holds the business logic between controllers and
// repositories. Services that participate in checkout depend on narrow store
// interfaces so tests can substitute in-memory fakes.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
)

// TxnRunner executes fn inside a multi-document transaction. The context
// passed to fn must be used for every store call so the operations commit or
// abort together.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ProductStore is the slice of the product repository used by cart and
// checkout.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// CartStore is the slice of the cart repository used by cart and checkout.
type CartStore interface {
	FindByUser(ctx context.Context, user primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, user primitive.ObjectID) error
}

// OrderStore is the slice of the order repository used by checkout and order
// queries.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByToken(ctx context.Context, user primitive.ObjectID, token string) (*models.Order, error)
	ListByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, f repositories.OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	MarkRestocked(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// UserStore is the slice of the user repository used by order queries.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// UserAdminStore is the slice of the user repository used by the admin
// user-management endpoints.
type UserAdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f repositories.UserListFilter) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, email, role string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Publisher receives order lifecycle events; the WebSocket hub implements
// it. A nil publisher disables events.
type Publisher interface {
	PublishJSON(v interface{})
}
