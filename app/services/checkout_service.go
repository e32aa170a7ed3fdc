package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/metrics"
)

// CheckoutService turns a cart into an order inside a single transaction.
type CheckoutService struct {
	products ProductStore
	carts    CartStore
	orders   OrderStore
	txn      TxnRunner
	events   Publisher

	// Injected for deterministic tests.
	now     func() time.Time
	randInt func(n int) int
}

// NewCheckoutService wires the checkout engine. events may be nil.
func NewCheckoutService(products ProductStore, carts CartStore, orders OrderStore, txn TxnRunner, events Publisher) *CheckoutService {
	return &CheckoutService{
		products: products,
		carts:    carts,
		orders:   orders,
		txn:      txn,
		events:   events,
		now:      time.Now,
		randInt:  rand.Intn,
	}
}

// PlaceOrderInput is the checkout request payload.
type PlaceOrderInput struct {
	ShippingAddress models.AddressSnapshot  `json:"shippingAddress"`
	BillingAddress  *models.AddressSnapshot `json:"billingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	CheckoutToken   string                  `json:"checkoutToken"`
}

// PlaceOrderResult carries the order plus whether it was an idempotent
// replay of an earlier submission.
type PlaceOrderResult struct {
	Order      *models.Order
	Idempotent bool
}

// PlaceOrder validates the cart, freezes snapshot-priced items into an
// order, decrements tracked stock and clears the cart — all inside one
// transaction. A retried submission carrying the same checkout token gets
// the original order back.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}

	if !in.ShippingAddress.Complete() {
		metrics.RecordCheckoutFailure("validation")
		return nil, apperr.Validation("Incomplete shipping address")
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCOD
	}
	if !models.ValidPaymentMethod(method) {
		metrics.RecordCheckoutFailure("validation")
		return nil, apperr.Validation("Invalid payment method")
	}

	// Advisory idempotency pre-check; the unique partial index on
	// (user, checkoutToken) is the authoritative guard.
	if in.CheckoutToken != "" {
		if prior, err := s.orders.FindByToken(ctx, user, in.CheckoutToken); err == nil {
			return &PlaceOrderResult{Order: prior, Idempotent: true}, nil
		} else if !apperr.IsNotFound(err) {
			return nil, err
		}
	}

	order, err := s.placeOnce(ctx, user, in, method)
	if apperr.IsConflict(err) {
		// Either the idempotency index fired (concurrent duplicate submit)
		// or the random orderNo collided. Distinguish by re-reading the
		// token; an orderNo collision gets one full retry.
		if in.CheckoutToken != "" {
			if prior, ferr := s.orders.FindByToken(ctx, user, in.CheckoutToken); ferr == nil {
				return &PlaceOrderResult{Order: prior, Idempotent: true}, nil
			}
		}
		order, err = s.placeOnce(ctx, user, in, method)
		if apperr.IsConflict(err) {
			metrics.RecordCheckoutFailure("conflict")
			return nil, apperr.Conflict("Could not allocate order number, please retry")
		}
	}
	if err != nil {
		if apperr.IsValidation(err) {
			metrics.RecordCheckoutFailure("stock")
		} else if !apperr.IsConflict(err) {
			metrics.RecordCheckoutFailure("internal")
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_no", order.OrderNo, "user", userID, "total", order.Total)

	if s.events != nil {
		s.events.PublishJSON(map[string]interface{}{
			"event":   "order.placed",
			"orderNo": order.OrderNo,
			"total":   order.Total,
			"status":  order.Status,
		})
	}

	return &PlaceOrderResult{Order: order}, nil
}

// placeOnce runs one full checkout transaction attempt.
func (s *CheckoutService) placeOnce(ctx context.Context, user primitive.ObjectID, in PlaceOrderInput, method string) (*models.Order, error) {
	var order *models.Order

	err := s.txn(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.FindByUser(txCtx, user)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.Validation("Cart is empty")
		}

		ids := make([]primitive.ObjectID, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.Product)
		}
		catalog, err := s.products.FindByIDs(txCtx, ids)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			p, ok := catalog[it.Product]
			if !ok {
				return apperr.Validation(fmt.Sprintf("Product removed: %s", it.Title))
			}
			if it.Size != "" && len(p.Sizes) > 0 && !p.AllowsSize(it.Size) {
				return apperr.Validation(fmt.Sprintf("Invalid size on %s", p.Title))
			}
			if !p.HasStock(it.Qty) {
				return apperr.Validation(fmt.Sprintf("Insufficient stock for %s", p.Title))
			}

			// Snapshot price from the cart line, never the live price.
			items = append(items, models.OrderItem{
				Product:  it.Product,
				Slug:     it.Slug,
				Title:    it.Title,
				ImageURL: it.ImageURL,
				Price:    it.Price,
				Size:     it.Size,
				Qty:      it.Qty,
			})
		}

		var subtotal float64
		for _, it := range items {
			subtotal += it.Price * float64(it.Qty)
		}
		shippingFee := 0.0
		discount := 0.0
		total := subtotal + shippingFee - discount

		billing := in.BillingAddress
		if billing == nil {
			b := in.ShippingAddress
			billing = &b
		}

		o := &models.Order{
			OrderNo:         s.newOrderNo(),
			User:            user,
			Items:           items,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			Discount:        discount,
			Total:           total,
			Currency:        "PKR",
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  billing,
			PaymentMethod:   method,
			PaymentStatus:   models.PaymentUnpaid,
			Status:          models.OrderCreated,
			CheckoutToken:   in.CheckoutToken,
		}

		if err := s.orders.Insert(txCtx, o); err != nil {
			return err
		}

		for _, it := range items {
			if p := catalog[it.Product]; p.TracksStock() {
				if err := s.products.DecrementStock(txCtx, it.Product, it.Qty); err != nil {
					return err
				}
			}
		}

		if err := s.carts.Clear(txCtx, user); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// newOrderNo builds the human-friendly order number: YYMMDD-NNNN with a
// random 4-digit suffix. Collisions are caught by the unique index and
// retried once by the caller.
func (s *CheckoutService) newOrderNo() string {
	return fmt.Sprintf("%s-%d", s.now().Format("060102"), 1000+s.randInt(9000))
}
