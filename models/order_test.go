package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemsSubtotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 2, PriceAtPurchase: 3000},
		{ProductID: "p2", Quantity: 3, PriceAtPurchase: 550},
	}
	assert.Equal(t, 7650.0, ItemsSubtotal(items))
	assert.Equal(t, 0.0, ItemsSubtotal(nil))
}

func TestApplyDiscountPercentage(t *testing.T) {
	assert.Equal(t, 900.0, ApplyDiscount(1000, DiscountTypePercentage, 10))
	assert.Equal(t, 1000.0, ApplyDiscount(1000, DiscountTypePercentage, 0))
}

func TestApplyDiscountFixed(t *testing.T) {
	assert.Equal(t, 750.0, ApplyDiscount(1000, DiscountTypeFixed, 250))
	// A fixed discount larger than the subtotal floors at zero
	assert.Equal(t, 0.0, ApplyDiscount(1000, DiscountTypeFixed, 1500))
}

func TestApplyDiscountUnknownType(t *testing.T) {
	assert.Equal(t, 1000.0, ApplyDiscount(1000, "bogus", 50))
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("confirmed"))
	assert.False(t, ValidOrderStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded} {
		assert.True(t, ValidPaymentStatus(s), s)
	}
	assert.False(t, ValidPaymentStatus("partial"))
}
