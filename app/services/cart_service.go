package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/pkg/apperr"
)

const (
	minQty = 1
	maxQty = 10
)

// clampQty folds any requested quantity into the allowed [1,10] range.
func clampQty(qty int) int {
	if qty < minQty {
		return minQty
	}
	if qty > maxQty {
		return maxQty
	}
	return qty
}

// CartService manages the per-user cart.
type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// CartView is the cart plus its derived totals, the shape every cart
// endpoint returns.
type CartView struct {
	Cart       *models.Cart `json:"cart"`
	TotalItems int          `json:"totalItems"`
	Subtotal   float64      `json:"subtotal"`
}

func view(c *models.Cart) *CartView {
	items, subtotal := c.Totals()
	return &CartView{Cart: c, TotalItems: items, Subtotal: subtotal}
}

// Get returns the user's cart with recomputed totals.
func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}

	cart, err := s.carts.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return view(cart), nil
}

// AddItemInput adds qty of (product, size) to the cart.
type AddItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

// AddItem upserts a cart line: an existing (product, size) line has its
// quantity increased, otherwise a new snapshot line is appended. The
// snapshot freezes slug, title, image and price at add time.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*CartView, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return nil, apperr.Validation("Invalid product id")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.AllowsSize(in.Size) {
		return nil, apperr.Validation("Invalid size on " + product.Title)
	}

	qty := clampQty(in.Qty)

	cart, err := s.carts.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if i := cart.FindItem(productID, in.Size); i >= 0 {
		cart.Items[i].Qty = clampQty(cart.Items[i].Qty + qty)
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ID:       primitive.NewObjectID(),
			Product:  product.ID,
			Slug:     product.Slug,
			Title:    product.Title,
			ImageURL: product.ImageURL,
			Price:    product.Price,
			Size:     in.Size,
			Qty:      qty,
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// UpdateItemQty sets the quantity of one cart line, clamped to [1,10].
func (s *CartService) UpdateItemQty(ctx context.Context, userID, itemID string, qty int) (*CartView, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}
	item, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, apperr.Validation("Invalid item id")
	}

	cart, err := s.carts.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == item {
			cart.Items[i].Qty = clampQty(qty)
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.NotFound("Cart item not found")
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*CartView, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}
	item, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, apperr.Validation("Invalid item id")
	}

	cart, err := s.carts.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, it := range cart.Items {
		if it.ID == item {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return nil, apperr.NotFound("Cart item not found")
	}
	cart.Items = kept

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid user")
	}

	if err := s.carts.Clear(ctx, user); err != nil {
		return nil, err
	}
	return view(&models.Cart{User: user, Items: []models.CartItem{}}), nil
}
