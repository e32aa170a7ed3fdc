package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a snapshot line in a user's cart. Title, slug, image and price
// are copied from the product at add time; checkout charges the snapshot
// price, never the live one.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	Slug      string             `bson:"slug" json:"slug"`
	Title     string             `bson:"title" json:"title"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Qty       int                `bson:"qty" json:"qty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Cart holds one user's pending items. One cart per user, enforced by a
// unique index on the user field.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Totals recomputes the derived cart numbers from the stored lines.
func (c *Cart) Totals() (totalItems int, subtotal float64) {
	for _, it := range c.Items {
		totalItems += it.Qty
		subtotal += it.Price * float64(it.Qty)
	}
	return totalItems, subtotal
}

// FindItem returns the index of the line matching (product, size), or -1.
func (c *Cart) FindItem(product primitive.ObjectID, size string) int {
	for i, it := range c.Items {
		if it.Product == product && it.Size == size {
			return i
		}
	}
	return -1
}
