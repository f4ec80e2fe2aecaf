package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avanimitra/organic-fruits-backend/models"
)

// GetProduct fetches a product by its hex id. A malformed id or a missing
// document both surface as ErrNotFound.
func GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	var product models.Product
	err = Collection("products").FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &product, nil
}

// DecrementStock atomically decrements a product's stock by quantity, but
// only when the current stock covers it. The guard lives in the update
// filter, so two concurrent checkouts against the last unit cannot both
// succeed. A zero match count means insufficient stock.
func DecrementStock(ctx context.Context, productID string, quantity int) error {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrNotFound
	}

	result, err := Collection("products").UpdateOne(ctx,
		bson.M{"_id": objectID, "stock_quantity": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock_quantity": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns previously decremented stock, used to compensate
// when a later item of the same checkout fails
func IncrementStock(ctx context.Context, productID string, quantity int) error {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrNotFound
	}

	_, err = Collection("products").UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"stock_quantity": quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}
