package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyProduct is a product offered in the customer survey, managed by admins
type SurveyProduct struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	AvailableQuantities []string           `bson:"available_quantities,omitempty" json:"available_quantities,omitempty"`
	Category            string             `bson:"category,omitempty" json:"category,omitempty"`
}

// SurveyProductUpdate is a partial update; nil fields are left untouched
type SurveyProductUpdate struct {
	Name                *string   `json:"name"`
	Description         *string   `json:"description"`
	AvailableQuantities *[]string `json:"available_quantities"`
	Category            *string   `json:"category"`
}

// SurveyProductPreference is one product choice inside a survey response
type SurveyProductPreference struct {
	ProductName string `bson:"product_name" json:"product_name"`
	Quantity    string `bson:"quantity" json:"quantity"`
	Frequency   string `bson:"frequency" json:"frequency"` // weekly, monthly, ...
}

// SurveyResponse is a customer's survey submission, keyed by mobile number
type SurveyResponse struct {
	ID                 primitive.ObjectID        `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string                    `bson:"name" json:"name"`
	Mobile             string                    `bson:"mobile" json:"mobile"`
	Address            string                    `bson:"address" json:"address"`
	Area               string                    `bson:"area" json:"area"`
	City               string                    `bson:"city" json:"city"`
	ProductPreferences []SurveyProductPreference `bson:"product_preferences" json:"product_preferences"`
	CreatedAt          time.Time                 `bson:"created_at" json:"created_at"`
}
