package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avanimitra/organic-fruits-backend/models"
)

// GetPaymentSettings returns the singleton payment-settings record,
// creating it with defaults on first read. The upsert with $setOnInsert is
// idempotent, so concurrent first reads cannot create duplicates.
func GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	defaults := bson.M{
		"bank_name":      "IDBI Bank Limited",
		"account_holder": "Atharva Datar",
		"account_number": "0490104000173407",
		"ifsc_code":      "IBKL0000490",
		"upi_id":         "acdatar-3@okhdfcbank",
		"gpay_number":    "9764814452",
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var settings models.PaymentSettings
	err := Collection("payment_settings").FindOneAndUpdate(ctx,
		bson.M{},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment settings: %w", err)
	}
	return &settings, nil
}

// UpdatePaymentSettings replaces the singleton's fields
func UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings) (*models.PaymentSettings, error) {
	update := bson.M{"$set": bson.M{
		"bank_name":      settings.BankName,
		"account_holder": settings.AccountHolder,
		"account_number": settings.AccountNumber,
		"ifsc_code":      settings.IFSCCode,
		"upi_id":         settings.UPIID,
		"gpay_number":    settings.GPayNumber,
	}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.PaymentSettings
	err := Collection("payment_settings").FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment settings: %w", err)
	}
	return &updated, nil
}
