package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/avanimitra/organic-fruits-backend/models"
)

func TestBulkUpdateFields(t *testing.T) {
	fields, errMsg := bulkUpdateFields(BulkUpdateRequest{
		OrderStatus:   models.OrderStatusShipped,
		PaymentStatus: models.PaymentStatusPaid,
	})
	assert.Empty(t, errMsg)
	assert.Equal(t, bson.M{
		"order_status":   models.OrderStatusShipped,
		"payment_status": models.PaymentStatusPaid,
	}, fields)
}

func TestBulkUpdateFieldsPartial(t *testing.T) {
	fields, errMsg := bulkUpdateFields(BulkUpdateRequest{OrderStatus: models.OrderStatusDelivered})
	assert.Empty(t, errMsg)
	assert.Equal(t, bson.M{"order_status": models.OrderStatusDelivered}, fields)
}

func TestBulkUpdateFieldsRejectsUnknownStatus(t *testing.T) {
	_, errMsg := bulkUpdateFields(BulkUpdateRequest{OrderStatus: "confirmed"})
	assert.Contains(t, errMsg, "Unknown order status")

	_, errMsg = bulkUpdateFields(BulkUpdateRequest{PaymentStatus: "partial"})
	assert.Contains(t, errMsg, "Unknown payment status")
}

func TestBulkUpdateFieldsEmpty(t *testing.T) {
	_, errMsg := bulkUpdateFields(BulkUpdateRequest{OrderIDs: []string{"abc"}})
	assert.Equal(t, "No update fields provided", errMsg)
}

func TestUserUpdateFields(t *testing.T) {
	name := "Asha Kulkarni"
	phone := "9876543210"
	fields, errMsg := userUpdateFields(models.UserUpdate{Name: &name, Phone: &phone})
	assert.Empty(t, errMsg)
	assert.Equal(t, name, fields["name"])
	assert.Equal(t, phone, fields["phone"])
	assert.NotContains(t, fields, "password")
}

func TestUserUpdateFieldsHashesPassword(t *testing.T) {
	password := "secret123"
	fields, errMsg := userUpdateFields(models.UserUpdate{Password: &password})
	assert.Empty(t, errMsg)
	// Stored value is a bcrypt hash, never the plaintext
	assert.NotEqual(t, password, fields["password"])
	assert.NotEmpty(t, fields["password"])
}

func TestUserUpdateFieldsValidation(t *testing.T) {
	badPhone := "12345"
	_, errMsg := userUpdateFields(models.UserUpdate{Phone: &badPhone})
	assert.Equal(t, "Phone number must be 10 digits", errMsg)

	shortPassword := "abc"
	_, errMsg = userUpdateFields(models.UserUpdate{Password: &shortPassword})
	assert.Equal(t, "Password must be at least 6 characters", errMsg)
}
