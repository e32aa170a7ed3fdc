package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses.
const (
	OrderCreated   = "created"
	OrderConfirmed = "confirmed"
	OrderPacked    = "packed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCanceled  = "canceled"
)

// Payment methods and payment statuses.
const (
	PaymentCOD  = "COD"
	PaymentCard = "CARD"
	PaymentBank = "BANK"

	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderCreated, OrderConfirmed, OrderPacked, OrderShipped, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentBank:
		return true
	}
	return false
}

// AddressSnapshot is the shipping/billing address frozen onto an order.
type AddressSnapshot struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Phone      string `bson:"phone" json:"phone"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2" json:"line2"`
	City       string `bson:"city" json:"city"`
	Province   string `bson:"province" json:"province"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Complete reports whether the required address fields are present.
func (a AddressSnapshot) Complete() bool {
	return a.FullName != "" && a.Phone != "" && a.Line1 != "" &&
		a.City != "" && a.Province != ""
}

// OrderItem is a checkout-time snapshot of a cart line.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Slug     string             `bson:"slug" json:"slug"`
	Title    string             `bson:"title" json:"title"`
	ImageURL string             `bson:"imageUrl" json:"imageUrl"`
	Price    float64            `bson:"price" json:"price"`
	Size     string             `bson:"size" json:"size"`
	Qty      int                `bson:"qty" json:"qty"`
}

// Order is a placed order document.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrderNo     string             `bson:"orderNo" json:"orderNo"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Subtotal    float64            `bson:"subtotal" json:"subtotal"`
	ShippingFee float64            `bson:"shippingFee" json:"shippingFee"`
	Discount    float64            `bson:"discount" json:"discount"`
	Total       float64            `bson:"total" json:"total"`
	Currency    string             `bson:"currency" json:"currency"`

	ShippingAddress AddressSnapshot  `bson:"shippingAddress" json:"shippingAddress"`
	BillingAddress  *AddressSnapshot `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`

	PaymentMethod string `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string `bson:"paymentStatus" json:"paymentStatus"`
	Status        string `bson:"status" json:"status"`

	// CheckoutToken deduplicates retried submissions; enforced by a unique
	// partial index on (user, checkoutToken).
	CheckoutToken string `bson:"checkoutToken,omitempty" json:"checkoutToken,omitempty"`

	// Restocked guards restock-on-cancel so inventory is returned at most
	// once per order.
	Restocked bool `bson:"restocked,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
