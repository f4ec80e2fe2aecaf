package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status lifecycle
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status lifecycle, independent of the order status
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Discount types for admin custom orders
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// OrderItem is a snapshot of a purchased line. PriceAtPurchase is fixed at
// order-creation time and never recomputed from current catalog prices.
type OrderItem struct {
	ProductID       string       `bson:"product_id" json:"product_id"`
	Quantity        int          `bson:"quantity" json:"quantity"`
	PriceAtPurchase float64      `bson:"price_at_purchase" json:"price_at_purchase"`
	SelectedOption  *PriceOption `bson:"selected_option,omitempty" json:"selected_option,omitempty"`
}

// Discount records a manual reduction applied by an admin custom order
type Discount struct {
	Type          string  `bson:"type" json:"type"` // "percentage" or "fixed"
	Value         float64 `bson:"value" json:"value"`
	OriginalTotal float64 `bson:"original_total" json:"original_total"`
}

// Order is immutable after creation except for the two status fields and
// administrative corrections
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	OrderDate       time.Time          `bson:"order_date" json:"order_date"`
	DeliveryAddress string             `bson:"delivery_address" json:"delivery_address"`
	ReceiverPhone   string             `bson:"receiver_phone" json:"receiver_phone"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"total_amount" json:"total_amount"`
	OrderStatus     string             `bson:"order_status" json:"order_status"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod   string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Discount        *Discount          `bson:"discount,omitempty" json:"discount,omitempty"`
}

// OrderUpdate is an admin correction; nil fields are left untouched.
// Items, when present, replaces the full item list.
type OrderUpdate struct {
	OrderStatus     *string      `json:"order_status"`
	PaymentStatus   *string      `json:"payment_status"`
	DeliveryAddress *string      `json:"delivery_address"`
	ReceiverPhone   *string      `json:"receiver_phone"`
	Items           *[]OrderItem `json:"items"`
}

// ItemsSubtotal sums price_at_purchase * quantity over the line items
func ItemsSubtotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.PriceAtPurchase * float64(item.Quantity)
	}
	return total
}

// ApplyDiscount reduces a subtotal by a percentage or fixed amount.
// Unknown discount types leave the subtotal unchanged; a fixed discount
// never takes the total below zero.
func ApplyDiscount(subtotal float64, discountType string, value float64) float64 {
	switch discountType {
	case DiscountTypePercentage:
		return subtotal - subtotal*(value/100)
	case DiscountTypeFixed:
		if value > subtotal {
			return 0
		}
		return subtotal - value
	}
	return subtotal
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
