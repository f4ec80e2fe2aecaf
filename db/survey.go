package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avanimitra/organic-fruits-backend/models"
)

// GetSurveyProducts lists all survey products
func GetSurveyProducts(ctx context.Context) ([]models.SurveyProduct, error) {
	cursor, err := Collection("survey_products").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch survey products: %w", err)
	}

	products := []models.SurveyProduct{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode survey products: %w", err)
	}
	return products, nil
}

// GetSurveyProduct fetches one survey product by hex id
func GetSurveyProduct(ctx context.Context, productID string) (*models.SurveyProduct, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	var product models.SurveyProduct
	err = Collection("survey_products").FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch survey product: %w", err)
	}
	return &product, nil
}

// CreateSurveyProduct inserts a survey product and returns it with its id
func CreateSurveyProduct(ctx context.Context, product *models.SurveyProduct) (*models.SurveyProduct, error) {
	result, err := Collection("survey_products").InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create survey product: %w", err)
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return product, nil
}

// UpdateSurveyProduct applies a partial update and returns the fresh document
func UpdateSurveyProduct(ctx context.Context, productID string, update models.SurveyProductUpdate) (*models.SurveyProduct, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.AvailableQuantities != nil {
		fields["available_quantities"] = *update.AvailableQuantities
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}

	if len(fields) > 0 {
		_, err = Collection("survey_products").UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
		if err != nil {
			return nil, fmt.Errorf("failed to update survey product: %w", err)
		}
	}
	return GetSurveyProduct(ctx, productID)
}

// DeleteSurveyProduct removes a survey product
func DeleteSurveyProduct(ctx context.Context, productID string) error {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrNotFound
	}

	_, err = Collection("survey_products").DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete survey product: %w", err)
	}
	return nil
}

// GetSurveyResponses lists all survey responses
func GetSurveyResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	cursor, err := Collection("survey_responses").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch survey responses: %w", err)
	}

	responses := []models.SurveyResponse{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, fmt.Errorf("failed to decode survey responses: %w", err)
	}
	return responses, nil
}

// GetSurveyResponseByMobile fetches a response by the submitter's mobile
// number, or ErrNotFound
func GetSurveyResponseByMobile(ctx context.Context, mobile string) (*models.SurveyResponse, error) {
	var response models.SurveyResponse
	err := Collection("survey_responses").FindOne(ctx, bson.M{"mobile": mobile}).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch survey response: %w", err)
	}
	return &response, nil
}

// UpsertSurveyResponse creates or replaces the response for a mobile number,
// refreshing created_at either way
func UpsertSurveyResponse(ctx context.Context, response *models.SurveyResponse) (*models.SurveyResponse, error) {
	response.CreatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":                response.Name,
		"mobile":              response.Mobile,
		"address":             response.Address,
		"area":                response.Area,
		"city":                response.City,
		"product_preferences": response.ProductPreferences,
		"created_at":          response.CreatedAt,
	}}

	// Upsert keeps submit idempotent per mobile number
	opts := options.Update().SetUpsert(true)
	_, err := Collection("survey_responses").UpdateOne(ctx,
		bson.M{"mobile": response.Mobile}, update, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to save survey response: %w", err)
	}
	return GetSurveyResponseByMobile(ctx, response.Mobile)
}
