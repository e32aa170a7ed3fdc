package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/pkg/apperr"
)

func newCheckout(store *fakeStore, events Publisher) *CheckoutService {
	s := NewCheckoutService(store, store, orderStoreAdapter{store}, store.Txn(), events)
	s.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }
	s.randInt = func(n int) int { return 234 } // orderNo 250314-1234
	return s
}

func shippingAddress() models.AddressSnapshot {
	return models.AddressSnapshot{
		FullName: "Ayesha Khan",
		Phone:    "+923001234567",
		Line1:    "14-B Model Town",
		City:     "Lahore",
		Province: "Punjab",
	}
}

func seedCheckout(t *testing.T, store *fakeStore) (user, productID primitive.ObjectID) {
	t.Helper()
	user = primitive.NewObjectID()
	stock := 10
	productID = store.addProduct(models.Product{
		Title: "Aero Glide Runner",
		Slug:  "aero-glide-runner",
		Price: 1200, // live price differs from cart snapshot on purpose
		Sizes: []string{"8", "9"},
		Stock: &stock,
	})
	store.setCart(user, []models.CartItem{{
		ID:      primitive.NewObjectID(),
		Product: productID,
		Slug:    "aero-glide-runner",
		Title:   "Aero Glide Runner",
		Price:   1000,
		Size:    "9",
		Qty:     2,
	}})
	return user, productID
}

func TestPlaceOrderHappyPath(t *testing.T) {
	store := newFakeStore()
	events := &fakePublisher{}
	svc := newCheckout(store, events)
	user, productID := seedCheckout(t, store)

	result, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.NoError(t, err)
	require.False(t, result.Idempotent)

	o := result.Order
	assert.Equal(t, "250314-1234", o.OrderNo)
	assert.Equal(t, models.OrderCreated, o.Status)
	assert.Equal(t, models.PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, models.PaymentCOD, o.PaymentMethod, "payment method defaults to COD")
	assert.Equal(t, "PKR", o.Currency)

	// Snapshot pricing: the cart line price (1000), not the live price (1200).
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1000.0, o.Items[0].Price)
	assert.Equal(t, 2000.0, o.Subtotal)
	assert.Equal(t, o.Subtotal+o.ShippingFee-o.Discount, o.Total)

	// Billing defaults to shipping.
	require.NotNil(t, o.BillingAddress)
	assert.Equal(t, o.ShippingAddress, *o.BillingAddress)

	// Side effects: stock decremented, cart emptied, event published.
	assert.Equal(t, 8, store.stockOf(productID))
	assert.Empty(t, store.cartItems(user))
	require.Len(t, events.events, 1)
	assert.Equal(t, "order.placed", events.events[0]["event"])
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user := primitive.NewObjectID()

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Cart is empty")
}

func TestPlaceOrderIncompleteAddress(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, _ := seedCheckout(t, store)

	addr := shippingAddress()
	addr.City = ""
	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{ShippingAddress: addr})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, _ := seedCheckout(t, store)

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "BITCOIN",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user := primitive.NewObjectID()

	stock := 1
	productID := store.addProduct(models.Product{
		Title: "Court Classic Low",
		Slug:  "court-classic-low",
		Price: 500,
		Stock: &stock,
	})
	store.setCart(user, []models.CartItem{{
		ID:      primitive.NewObjectID(),
		Product: productID,
		Title:   "Court Classic Low",
		Price:   500,
		Qty:     3,
	}})

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Insufficient stock for Court Classic Low")

	// Nothing changed: no order, stock intact, cart intact.
	assert.Equal(t, 0, store.orderCount())
	assert.Equal(t, 1, store.stockOf(productID))
	assert.Len(t, store.cartItems(user), 1)
}

func TestPlaceOrderRemovedProductRollsBack(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user := primitive.NewObjectID()

	store.setCart(user, []models.CartItem{{
		ID:      primitive.NewObjectID(),
		Product: primitive.NewObjectID(), // never added to the catalog
		Title:   "Ghost Shoe",
		Price:   900,
		Qty:     1,
	}})

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Product removed: Ghost Shoe")
	assert.Equal(t, 0, store.orderCount())
	assert.Len(t, store.cartItems(user), 1)
}

func TestPlaceOrderInvalidSizeRollsBack(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, _ := seedCheckout(t, store)

	items := store.cartItems(user)
	items[0].Size = "13"
	store.setCart(user, items)

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Invalid size on Aero Glide Runner")
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, productID := seedCheckout(t, store)

	in := PlaceOrderInput{
		ShippingAddress: shippingAddress(),
		CheckoutToken:   "tok-abc-123",
	}

	first, err := svc.PlaceOrder(context.Background(), user.Hex(), in)
	require.NoError(t, err)
	require.False(t, first.Idempotent)

	// Same token again: no new order, no second stock decrement.
	second, err := svc.PlaceOrder(context.Background(), user.Hex(), in)
	require.NoError(t, err)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, first.Order.OrderNo, second.Order.OrderNo)
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 8, store.stockOf(productID))
}

func TestPlaceOrderRetriesOnOrderNoCollision(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, _ := seedCheckout(t, store)

	// An earlier order already holds 250314-1234; the suffix generator
	// returns the colliding value once, then a fresh one.
	otherUser := primitive.NewObjectID()
	require.NoError(t, store.Insert(context.Background(), &models.Order{
		OrderNo: "250314-1234",
		User:    otherUser,
		Status:  models.OrderCreated,
	}))

	calls := 0
	svc.randInt = func(n int) int {
		calls++
		if calls == 1 {
			return 234
		}
		return 777 // 250314-1777
	}

	result, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, "250314-1777", result.Order.OrderNo)
	assert.Equal(t, 2, store.orderCount())
}

func TestPlaceOrderPersistentCollisionConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, productID := seedCheckout(t, store)

	otherUser := primitive.NewObjectID()
	require.NoError(t, store.Insert(context.Background(), &models.Order{
		OrderNo: "250314-1234",
		User:    otherUser,
		Status:  models.OrderCreated,
	}))
	// Generator keeps returning the taken suffix; both attempts collide.

	_, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// Rolled back both times.
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 10, store.stockOf(productID))
	assert.Len(t, store.cartItems(user), 1)
}

func TestPlaceOrderUntrackedStockNotDecremented(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user := primitive.NewObjectID()

	productID := store.addProduct(models.Product{
		Title: "Derby Heritage Brown",
		Slug:  "derby-heritage-brown",
		Price: 9899,
	})
	store.setCart(user, []models.CartItem{{
		ID:      primitive.NewObjectID(),
		Product: productID,
		Title:   "Derby Heritage Brown",
		Price:   9899,
		Qty:     5,
	}})

	result, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, 49495.0, result.Order.Subtotal)

	p, err := store.FindByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Nil(t, p.Stock)
}

func TestPlaceOrderKeepsExplicitBillingAddress(t *testing.T) {
	store := newFakeStore()
	svc := newCheckout(store, nil)
	user, _ := seedCheckout(t, store)

	billing := models.AddressSnapshot{
		FullName: "Billing Dept",
		Phone:    "+92111222333",
		Line1:    "Suite 4, Business Bay",
		City:     "Karachi",
		Province: "Sindh",
	}
	result, err := svc.PlaceOrder(context.Background(), user.Hex(), PlaceOrderInput{
		ShippingAddress: shippingAddress(),
		BillingAddress:  &billing,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order.BillingAddress)
	assert.Equal(t, billing, *result.Order.BillingAddress)
}
