package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feature is a highlighted catalog item. Product-shaped but without
// inventory tracking.
type Feature struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Sub         string             `bson:"sub" json:"sub"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	ImageName   string             `bson:"imageName" json:"imageName"`
	Description string             `bson:"description" json:"description"`
	Slug        string             `bson:"slug" json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
