package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner is a promotional tile used by both the trending and most-sales
// sections. The two live in separate collections but share one shape.
type Banner struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Heading    string             `bson:"heading" json:"heading"`
	Subheading string             `bson:"subheading" json:"subheading"`
	BtnText    string             `bson:"btnText" json:"btnText"`
	ImageURL   string             `bson:"imageUrl" json:"imageUrl"`
	ImageName  string             `bson:"imageName" json:"imageName"`
	Slug       string             `bson:"slug" json:"slug"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
