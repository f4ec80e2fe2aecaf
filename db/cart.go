package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avanimitra/organic-fruits-backend/models"
)

// GetUserCart returns the user's cart, creating an empty one on first access
func GetUserCart(ctx context.Context, userID string) (*models.Cart, error) {
	carts := Collection("carts")

	var cart models.Cart
	err := carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
	if _, err := carts.InsertOne(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddToCart merges an item into the user's cart by
// (product_id, selected_option) identity
func AddToCart(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	cart, err := GetUserCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = models.MergeCartItem(cart.Items, item)
	if err := setCartItems(ctx, userID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCartItem updates a line's quantity (and option, when supplied).
// A quantity of zero or less removes the product's lines regardless of option.
func UpdateCartItem(ctx context.Context, userID, productID string, quantity int, selected *models.PriceOption) (*models.Cart, error) {
	cart, err := GetUserCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = models.UpdateCartItem(cart.Items, productID, quantity, selected)
	if err := setCartItems(ctx, userID, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the user's line list
func ClearCart(ctx context.Context, userID string) error {
	return setCartItems(ctx, userID, []models.CartItem{})
}

func setCartItems(ctx context.Context, userID string, items []models.CartItem) error {
	_, err := Collection("carts").UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items}},
	)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}
