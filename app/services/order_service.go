package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/logger"
)

// OrderService answers order queries and handles the admin status flow.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	users    UserStore
	txn      TxnRunner
	events   Publisher
}

// NewOrderService wires order queries. events may be nil.
func NewOrderService(orders OrderStore, products ProductStore, users UserStore, txn TxnRunner, events Publisher) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, txn: txn, events: events}
}

// MyOrders returns the caller's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}
	return s.orders.ListByUser(ctx, user)
}

// OrderDetail is an order with its owner's public identity resolved.
type OrderDetail struct {
	models.Order
	Customer *OrderCustomer `json:"customer,omitempty"`
}

// OrderCustomer is the owner info exposed on an order detail.
type OrderCustomer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetByID returns one order. Non-admin callers may only read their own.
func (s *OrderService) GetByID(ctx context.Context, caller auth.Identity, orderID string) (*OrderDetail, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, apperr.NotFound("Order not found")
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.Role != models.RoleAdmin && order.User.Hex() != caller.UserID {
		return nil, apperr.Forbidden("Forbidden")
	}

	detail := &OrderDetail{Order: *order}
	if owner, err := s.users.FindByID(ctx, order.User.Hex()); err == nil {
		detail.Customer = &OrderCustomer{
			ID:    owner.ID.Hex(),
			Name:  owner.Name,
			Email: owner.Email,
		}
	}
	return detail, nil
}

// AdminList returns one page of orders for the admin dashboard. Page floors
// at 1; limit clamps to [1,100] with a default of 20.
func (s *OrderService) AdminList(ctx context.Context, f repositories.OrderListFilter) ([]models.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return nil, 0, apperr.Validation("Invalid status")
	}
	return s.orders.List(ctx, f)
}

// UpdateStatus moves an order to a new lifecycle status. Cancelling a
// stock-decremented order returns its units to inventory exactly once, with
// the status change and restock in one transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperr.Validation("Invalid status")
	}
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, apperr.NotFound("Order not found")
	}

	var updated *models.Order
	err = s.txn(ctx, func(txCtx context.Context) error {
		o, err := s.orders.UpdateStatus(txCtx, id, status)
		if err != nil {
			return err
		}

		if status == models.OrderCanceled {
			if err := s.restock(txCtx, o); err != nil {
				return err
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.PublishJSON(map[string]interface{}{
			"event":   "order.status",
			"orderNo": updated.OrderNo,
			"status":  updated.Status,
		})
	}
	return updated, nil
}

// restock returns a cancelled order's units to stock-tracked products. The
// restocked flag makes this a no-op when cancel is applied twice.
func (s *OrderService) restock(ctx context.Context, o *models.Order) error {
	first, err := s.orders.MarkRestocked(ctx, o.ID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.Product)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		p, ok := catalog[it.Product]
		if !ok || !p.TracksStock() {
			continue // product deleted or untracked; nothing to return
		}
		if err := s.products.IncrementStock(ctx, it.Product, it.Qty); err != nil {
			return err
		}
	}

	logger.WithCtx(ctx).Info("order restocked", "order_no", o.OrderNo)
	return nil
}
