package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PaymentSettings is a single process-wide record of bank/UPI details,
// created with defaults on first read if absent. No payment processing
// happens here; customers transfer manually and admins mark orders paid.
type PaymentSettings struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BankName      string             `bson:"bank_name" json:"bank_name"`
	AccountHolder string             `bson:"account_holder" json:"account_holder"`
	AccountNumber string             `bson:"account_number" json:"account_number"`
	IFSCCode      string             `bson:"ifsc_code" json:"ifsc_code"`
	UPIID         string             `bson:"upi_id" json:"upi_id"`
	GPayNumber    string             `bson:"gpay_number" json:"gpay_number"`
}
