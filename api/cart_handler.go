package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// CartItemRequest represents the payload for adding or updating a cart line
type CartItemRequest struct {
	ProductID      string              `json:"product_id"`
	Quantity       int                 `json:"quantity"`
	SelectedOption *models.PriceOption `json:"selected_option,omitempty"`
}

// CartItemResponse is a cart line joined with its product at read time
type CartItemResponse struct {
	ProductID      string              `json:"product_id"`
	Product        models.Product      `json:"product"`
	Quantity       int                 `json:"quantity"`
	SelectedOption *models.PriceOption `json:"selected_option,omitempty"`
}

// CartResponse is the priced view of a cart
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice float64            `json:"total_price"`
}

// GetCartHandler returns the user's priced cart, creating it on first access
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Cart API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	cart, err := db.GetUserCart(r.Context(), user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch cart", http.StatusInternalServerError)
		return
	}

	respondWithCart(w, r, &logMessageBuilder, cart)
}

// AddCartItemHandler merges an item into the cart by
// (product_id, selected_option) identity. Stock is deliberately not checked
// here; availability is validated at checkout.
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Add Cart Item API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		utils.RespondError(w, &logMessageBuilder, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	if _, err := db.GetProduct(r.Context(), req.ProductID); err != nil {
		if err == db.ErrNotFound {
			utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Failed to fetch product", http.StatusInternalServerError)
		}
		return
	}

	cart, err := db.AddToCart(r.Context(), user.ID.Hex(), models.CartItem{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		SelectedOption: req.SelectedOption,
	})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondWithCart(w, r, &logMessageBuilder, cart)
}

// UpdateCartItemHandler updates a line's quantity and optionally its option.
// Quantity zero or less removes the product's lines regardless of option.
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Cart Item API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	productID := r.PathValue("product_id")

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Quantity > 0 {
		if _, err := db.GetProduct(r.Context(), productID); err != nil {
			if err == db.ErrNotFound {
				utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
			} else {
				utils.RespondError(w, &logMessageBuilder, "Failed to fetch product", http.StatusInternalServerError)
			}
			return
		}
	}

	cart, err := db.UpdateCartItem(r.Context(), user.ID.Hex(), productID, req.Quantity, req.SelectedOption)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondWithCart(w, r, &logMessageBuilder, cart)
}

// RemoveCartItemHandler removes a product's lines through the quantity-0 path
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Remove Cart Item API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	cart, err := db.UpdateCartItem(r.Context(), user.ID.Hex(), r.PathValue("product_id"), 0, nil)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondWithCart(w, r, &logMessageBuilder, cart)
}

// ClearCartHandler empties the user's cart
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Clear Cart API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	if err := db.ClearCart(r.Context(), user.ID.Hex()); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, CartResponse{Items: []CartItemResponse{}, TotalPrice: 0})
}

// respondWithCart prices the cart and joins product details at read time.
// Lines whose product no longer exists are silently dropped from the view.
func respondWithCart(w http.ResponseWriter, r *http.Request, logger *strings.Builder, cart *models.Cart) {
	response := CartResponse{Items: []CartItemResponse{}}

	for _, item := range cart.Items {
		product, err := db.GetProduct(r.Context(), item.ProductID)
		if err != nil {
			if err == db.ErrNotFound {
				continue
			}
			utils.RespondError(w, logger, "Failed to price cart", http.StatusInternalServerError)
			return
		}

		product.ImageURL = utils.PresignImageURL(r.Context(), product.ImageURL)
		unitPrice := product.UnitPriceOrBase(item.SelectedOption)

		response.Items = append(response.Items, CartItemResponse{
			ProductID:      item.ProductID,
			Product:        *product,
			Quantity:       item.Quantity,
			SelectedOption: item.SelectedOption,
		})
		response.TotalPrice += unitPrice * float64(item.Quantity)
	}

	utils.AddToLogMessage(logger, fmt.Sprintf("Cart has %d items", len(response.Items)))
	utils.RespondJSON(w, http.StatusOK, response)
}
