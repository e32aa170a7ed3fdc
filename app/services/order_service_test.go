package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
)

func newOrderService(store *fakeStore, users UserStore, events Publisher) *OrderService {
	return NewOrderService(orderStoreAdapter{store}, store, users, store.Txn(), events)
}

func placeTestOrder(t *testing.T, store *fakeStore, user, productID primitive.ObjectID, qty int) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderNo: "250314-1234",
		User:    user,
		Items: []models.OrderItem{{
			Product: productID,
			Title:   "Aero Glide Runner",
			Price:   1000,
			Qty:     qty,
		}},
		Subtotal: 1000 * float64(qty),
		Total:    1000 * float64(qty),
		Status:   models.OrderCreated,
	}
	require.NoError(t, store.Insert(context.Background(), o))
	return o
}

func TestGetByIDOwnership(t *testing.T) {
	store := newFakeStore()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	users := &fakeUserStore{users: map[string]*models.User{
		owner.Hex(): {ID: owner, Name: "Ayesha Khan", Email: "ayesha@example.com"},
	}}
	svc := newOrderService(store, users, nil)

	o := placeTestOrder(t, store, owner, primitive.NewObjectID(), 1)

	// Owner sees the order with their identity attached.
	detail, err := svc.GetByID(context.Background(), auth.Identity{UserID: owner.Hex(), Role: models.RoleUser}, o.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, detail.Customer)
	assert.Equal(t, "Ayesha Khan", detail.Customer.Name)

	// A different non-admin user is refused.
	_, err = svc.GetByID(context.Background(), auth.Identity{UserID: stranger.Hex(), Role: models.RoleUser}, o.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	// An admin may read anyone's order.
	_, err = svc.GetByID(context.Background(), auth.Identity{UserID: stranger.Hex(), Role: models.RoleAdmin}, o.ID.Hex())
	assert.NoError(t, err)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	store := newFakeStore()
	svc := newOrderService(store, &fakeUserStore{}, nil)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "teleported")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCancelRestocksTrackedProductsOnce(t *testing.T) {
	store := newFakeStore()
	user := primitive.NewObjectID()

	stock := 8 // post-checkout stock; 2 units live in the order below
	productID := store.addProduct(models.Product{
		Title: "Aero Glide Runner",
		Price: 1000,
		Stock: &stock,
	})
	svc := newOrderService(store, &fakeUserStore{}, nil)
	o := placeTestOrder(t, store, user, productID, 2)

	updated, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.OrderCanceled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, updated.Status)
	assert.Equal(t, 10, store.stockOf(productID), "cancel returns the units")

	// Cancelling again must not restock a second time.
	_, err = svc.UpdateStatus(context.Background(), o.ID.Hex(), models.OrderCanceled)
	require.NoError(t, err)
	assert.Equal(t, 10, store.stockOf(productID))
}

func TestCancelSkipsUntrackedAndDeletedProducts(t *testing.T) {
	store := newFakeStore()
	user := primitive.NewObjectID()

	untracked := store.addProduct(models.Product{Title: "Derby Heritage Brown", Price: 9899})
	deleted := primitive.NewObjectID() // never in the catalog
	svc := newOrderService(store, &fakeUserStore{}, nil)

	o := &models.Order{
		OrderNo: "250314-2000",
		User:    user,
		Items: []models.OrderItem{
			{Product: untracked, Title: "Derby Heritage Brown", Price: 9899, Qty: 1},
			{Product: deleted, Title: "Gone", Price: 100, Qty: 1},
		},
		Status: models.OrderCreated,
	}
	require.NoError(t, store.Insert(context.Background(), o))

	_, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.OrderCanceled)
	assert.NoError(t, err)
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	store := newFakeStore()
	events := &fakePublisher{}
	svc := newOrderService(store, &fakeUserStore{}, events)

	o := placeTestOrder(t, store, primitive.NewObjectID(), primitive.NewObjectID(), 1)

	_, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.OrderShipped)
	require.NoError(t, err)
	require.Len(t, events.events, 1)
	assert.Equal(t, "order.status", events.events[0]["event"])
	assert.Equal(t, models.OrderShipped, events.events[0]["status"])
}

func TestAdminListClampsAndValidates(t *testing.T) {
	store := newFakeStore()
	svc := newOrderService(store, &fakeUserStore{}, nil)

	_, _, err := svc.AdminList(context.Background(), repositories.OrderListFilter{Status: "vaporized"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	// Out-of-range paging is folded into bounds rather than erroring.
	_, _, err = svc.AdminList(context.Background(), repositories.OrderListFilter{Page: -4, Limit: 10000})
	assert.NoError(t, err)
}

func TestMyOrdersNewestFirst(t *testing.T) {
	store := newFakeStore()
	user := primitive.NewObjectID()
	svc := newOrderService(store, &fakeUserStore{}, nil)

	first := &models.Order{OrderNo: "250313-1111", User: user, Status: models.OrderCreated}
	second := &models.Order{OrderNo: "250314-2222", User: user, Status: models.OrderCreated}
	require.NoError(t, store.Insert(context.Background(), first))
	require.NoError(t, store.Insert(context.Background(), second))

	orders, err := svc.MyOrders(context.Background(), user.Hex())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "250314-2222", orders[0].OrderNo)
}
