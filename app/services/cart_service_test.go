package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/pkg/apperr"
)

func newCartService(store *fakeStore) *CartService {
	return NewCartService(store, store)
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	productID := store.addProduct(models.Product{
		Title:    "Aero Glide Runner",
		Slug:     "aero-glide-runner",
		ImageURL: "/uploads/products/aero.jpg",
		Price:    1000,
		Sizes:    []string{"8", "9"},
	})

	view, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{
		ProductID: productID.Hex(),
		Size:      "9",
		Qty:       2,
	})
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)

	it := view.Cart.Items[0]
	assert.Equal(t, "aero-glide-runner", it.Slug)
	assert.Equal(t, "Aero Glide Runner", it.Title)
	assert.Equal(t, 1000.0, it.Price)
	assert.Equal(t, "9", it.Size)
	assert.Equal(t, 2, it.Qty)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 2000.0, view.Subtotal)
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	productID := store.addProduct(models.Product{
		Title: "Court Classic Low",
		Price: 500,
		Sizes: []string{"8"},
	})

	_, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Size: "8", Qty: 2})
	require.NoError(t, err)
	view, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Size: "8", Qty: 3})
	require.NoError(t, err)

	require.Len(t, view.Cart.Items, 1, "same (product, size) merges into one line")
	assert.Equal(t, 5, view.Cart.Items[0].Qty)

	// A different size gets its own line.
	store.products[productID].Sizes = []string{"8", "9"}
	view, err = svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Size: "9", Qty: 1})
	require.NoError(t, err)
	assert.Len(t, view.Cart.Items, 2)
}

func TestAddItemClampsQuantity(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	productID := store.addProduct(models.Product{Title: "Runner", Price: 100})

	view, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Qty: 50})
	require.NoError(t, err)
	assert.Equal(t, 10, view.Cart.Items[0].Qty, "quantity caps at 10")

	// Merging past the cap still clamps.
	view, err = svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Qty: 5})
	require.NoError(t, err)
	assert.Equal(t, 10, view.Cart.Items[0].Qty)

	// Zero and negative floor at 1.
	user2 := primitive.NewObjectID()
	view, err = svc.AddItem(context.Background(), user2.Hex(), AddItemInput{ProductID: productID.Hex(), Qty: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cart.Items[0].Qty)
}

func TestAddItemRejectsInvalidSize(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	productID := store.addProduct(models.Product{
		Title: "Runner",
		Price: 100,
		Sizes: []string{"8", "9"},
	})

	_, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{ProductID: productID.Hex(), Size: "13", Qty: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestAddItemUnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	_, err := svc.AddItem(context.Background(), user.Hex(), AddItemInput{
		ProductID: primitive.NewObjectID().Hex(),
		Qty:       1,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateItemQty(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	itemID := primitive.NewObjectID()
	store.setCart(user, []models.CartItem{{
		ID:      itemID,
		Product: primitive.NewObjectID(),
		Title:   "Runner",
		Price:   100,
		Qty:     2,
	}})

	view, err := svc.UpdateItemQty(context.Background(), user.Hex(), itemID.Hex(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Cart.Items[0].Qty)

	view, err = svc.UpdateItemQty(context.Background(), user.Hex(), itemID.Hex(), 99)
	require.NoError(t, err)
	assert.Equal(t, 10, view.Cart.Items[0].Qty)

	_, err = svc.UpdateItemQty(context.Background(), user.Hex(), primitive.NewObjectID().Hex(), 3)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRemoveItem(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	store.setCart(user, []models.CartItem{
		{ID: keep, Product: primitive.NewObjectID(), Title: "Keep", Price: 100, Qty: 1},
		{ID: drop, Product: primitive.NewObjectID(), Title: "Drop", Price: 200, Qty: 1},
	})

	view, err := svc.RemoveItem(context.Background(), user.Hex(), drop.Hex())
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, keep, view.Cart.Items[0].ID)

	_, err = svc.RemoveItem(context.Background(), user.Hex(), drop.Hex())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestClearCart(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)
	user := primitive.NewObjectID()

	store.setCart(user, []models.CartItem{{
		ID: primitive.NewObjectID(), Product: primitive.NewObjectID(), Price: 100, Qty: 2,
	}})

	view, err := svc.Clear(context.Background(), user.Hex())
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.Equal(t, 0, view.TotalItems)
	assert.Empty(t, store.cartItems(user))
}

func TestGetReturnsEmptyCartForNewUser(t *testing.T) {
	store := newFakeStore()
	svc := newCartService(store)

	view, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.Equal(t, 0.0, view.Subtotal)
}
