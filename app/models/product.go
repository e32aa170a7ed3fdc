package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item. Stock is a pointer: nil means inventory is not
// tracked for this product and any quantity can be ordered.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Sub           string             `bson:"sub" json:"sub"`
	Title         string             `bson:"title" json:"title"`
	Price         float64            `bson:"price" json:"price"`
	Sizes         []string           `bson:"sizes" json:"sizes"`
	Description   string             `bson:"description" json:"description"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	ImageName     string             `bson:"imageName" json:"imageName"`
	Slug          string             `bson:"slug" json:"slug"`
	IsBestSelling bool               `bson:"isBestSelling" json:"isBestSelling"`
	Stock         *int               `bson:"stock,omitempty" json:"stock,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TracksStock reports whether inventory is enforced for this product.
func (p *Product) TracksStock() bool { return p.Stock != nil }

// HasStock reports whether qty units can be taken from inventory.
// Untracked products always have stock.
func (p *Product) HasStock(qty int) bool {
	return p.Stock == nil || *p.Stock >= qty
}

// AllowsSize reports whether size is valid for this product. Products with no
// size list only accept an empty size; products with sizes require one of
// them (or empty, meaning unspecified).
func (p *Product) AllowsSize(size string) bool {
	if size == "" {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
