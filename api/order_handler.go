package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avanimitra/organic-fruits-backend/config"
	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// OrderCreateRequest is the checkout payload
type OrderCreateRequest struct {
	DeliveryAddress string            `json:"delivery_address"`
	ReceiverPhone   string            `json:"receiver_phone"`
	Items           []CartItemRequest `json:"items"`
	PaymentMethod   string            `json:"payment_method"`
}

// OrderItemResponse is an order line joined with its product at read time
type OrderItemResponse struct {
	ProductID       string              `json:"product_id"`
	Quantity        int                 `json:"quantity"`
	PriceAtPurchase float64             `json:"price_at_purchase"`
	SelectedOption  *models.PriceOption `json:"selected_option,omitempty"`
	Product         *models.Product     `json:"product,omitempty"`
}

// OrderResponse is an order with product details attached
type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	OrderDate       time.Time           `json:"order_date"`
	DeliveryAddress string              `json:"delivery_address"`
	ReceiverPhone   string              `json:"receiver_phone"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     float64             `json:"total_amount"`
	OrderStatus     string              `json:"order_status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	Discount        *models.Discount    `json:"discount,omitempty"`
}

// CreateOrderHandler converts a checkout request into an immutable order.
// Per item: the product must exist, be active and have sufficient stock.
// The stock decrement is a conditional update, so concurrent checkouts
// against the last unit cannot both succeed; on failure every decrement
// already applied in this request is returned before the error goes out.
func CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Order API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	var req OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DeliveryAddress == "" || req.ReceiverPhone == "" {
		utils.RespondError(w, &logMessageBuilder, "Delivery address and receiver phone are required", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Order must contain at least one item", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Validate every item before touching stock
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		if reqItem.Quantity < 1 {
			utils.RespondError(w, &logMessageBuilder, "Quantity must be at least 1", http.StatusBadRequest)
			return
		}

		product, err := db.GetProduct(ctx, reqItem.ProductID)
		if err != nil {
			if err == db.ErrNotFound {
				utils.RespondError(w, &logMessageBuilder,
					fmt.Sprintf("Product with id %s not found", reqItem.ProductID), http.StatusNotFound)
			} else {
				utils.RespondError(w, &logMessageBuilder, "Failed to fetch product", http.StatusInternalServerError)
			}
			return
		}

		if product.Status != "active" {
			utils.RespondError(w, &logMessageBuilder,
				fmt.Sprintf("Product '%s' is not available for purchase", product.Name), http.StatusBadRequest)
			return
		}

		unitPrice, err := product.ResolveUnitPrice(reqItem.SelectedOption)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder,
				fmt.Sprintf("Selected option does not exist for product '%s'", product.Name), http.StatusBadRequest)
			return
		}

		item := models.OrderItem{
			ProductID:       reqItem.ProductID,
			Quantity:        reqItem.Quantity,
			PriceAtPurchase: unitPrice,
		}
		if reqItem.SelectedOption != nil {
			// Snapshot the canonical option, not the client's copy
			option, _ := product.FindOption(reqItem.SelectedOption.Type, reqItem.SelectedOption.Size)
			item.SelectedOption = option
		}
		items = append(items, item)
	}

	// Decrement stock item by item with a conditional update; compensate on failure
	store := productStockStore{}
	if failedID, err := reserveStock(ctx, store, items, &logMessageBuilder); err != nil {
		if err == db.ErrInsufficientStock {
			utils.RespondError(w, &logMessageBuilder,
				fmt.Sprintf("Insufficient stock for product %s", failedID), http.StatusBadRequest)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Failed to reserve stock", http.StatusInternalServerError)
		}
		return
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "bank"
	}

	order := models.Order{
		UserID:          user.ID.Hex(),
		OrderDate:       time.Now().UTC(),
		DeliveryAddress: req.DeliveryAddress,
		ReceiverPhone:   req.ReceiverPhone,
		Items:           items,
		TotalAmount:     models.ItemsSubtotal(items),
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   paymentMethod,
	}

	result, err := db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		releaseStock(ctx, store, items, &logMessageBuilder)
		utils.RespondError(w, &logMessageBuilder, "Failed to create order", http.StatusInternalServerError)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	if err := db.ClearCart(ctx, user.ID.Hex()); err != nil {
		// Order exists; a stale cart is an annoyance, not a failure
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to clear cart: %v", err))
	}

	notifyNewOrder(&order, user)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created order %s", order.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, formatOrderResponse(ctx, &order))
}

// stockStore is the slice of the product store the checkout touches. The
// indirection keeps the reserve/compensate orchestration testable without a
// running database.
type stockStore interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
	IncrementStock(ctx context.Context, productID string, quantity int) error
}

type productStockStore struct{}

func (productStockStore) DecrementStock(ctx context.Context, productID string, quantity int) error {
	return db.DecrementStock(ctx, productID, quantity)
}

func (productStockStore) IncrementStock(ctx context.Context, productID string, quantity int) error {
	return db.IncrementStock(ctx, productID, quantity)
}

// reserveStock decrements stock for every item, in order. When an item fails,
// every decrement already applied is restored before the error returns, so a
// rejected checkout leaves net stock unchanged. The failing product id is
// returned alongside the error.
func reserveStock(ctx context.Context, store stockStore, items []models.OrderItem, logger *strings.Builder) (string, error) {
	reserved := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if err := store.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			releaseStock(ctx, store, reserved, logger)
			return item.ProductID, err
		}
		reserved = append(reserved, item)
	}
	return "", nil
}

// releaseStock returns previously reserved stock, used when a later step of
// the same checkout fails
func releaseStock(ctx context.Context, store stockStore, items []models.OrderItem, logger *strings.Builder) {
	for _, item := range items {
		if err := store.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			utils.AddToLogMessage(logger, fmt.Sprintf("Failed to restore stock for %s: %v", item.ProductID, err))
		}
	}
}

// notifyNewOrder fires a best-effort email to the configured admin address.
// Failures are logged and swallowed; the checkout has already succeeded.
func notifyNewOrder(order *models.Order, user *models.User) {
	if config.AdminEmail == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("New order from %s", user.Name)
		text := fmt.Sprintf("Order %s: %d items, total %.2f", order.ID.Hex(), len(order.Items), order.TotalAmount)
		html := fmt.Sprintf("<p>Order <strong>%s</strong>: %d items, total %.2f</p>",
			order.ID.Hex(), len(order.Items), order.TotalAmount)
		if err := utils.SendEmail("Admin", config.AdminEmail, subject, text, html); err != nil {
			fmt.Printf("Failed to send order notification: %v\n", err)
		}
	}()
}

// ListOrdersHandler returns the user's orders, newest first
func ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Orders API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := db.Collection("orders").Find(ctx, bson.M{"user_id": user.ID.Hex()}, opts)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to decode orders", http.StatusInternalServerError)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, formatOrderResponse(ctx, &orders[i]))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returned %d orders", len(responses)))
	utils.RespondJSON(w, http.StatusOK, responses)
}

// GetOrderHandler returns one of the user's orders
func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Order API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	order, err := findUserOrder(r.Context(), r.PathValue("order_id"), user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, formatOrderResponse(r.Context(), order))
}

// RepeatOrderHandler clones a past order into a fresh pending one. Items,
// snapshotted prices, options and the total are copied verbatim; current
// stock and catalog prices are deliberately not re-checked.
func RepeatOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Repeat Order API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	original, err := findUserOrder(r.Context(), r.PathValue("order_id"), user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	newOrder := models.Order{
		UserID:          user.ID.Hex(),
		OrderDate:       time.Now().UTC(),
		DeliveryAddress: original.DeliveryAddress,
		ReceiverPhone:   original.ReceiverPhone,
		Items:           original.Items,
		TotalAmount:     original.TotalAmount,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}

	result, err := db.Collection("orders").InsertOne(r.Context(), newOrder)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create order", http.StatusInternalServerError)
		return
	}
	newOrder.ID = result.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder,
		fmt.Sprintf("Repeated order %s as %s", original.ID.Hex(), newOrder.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, formatOrderResponse(r.Context(), &newOrder))
}

func findUserOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, db.ErrNotFound
	}

	var order models.Order
	err = db.Collection("orders").FindOne(ctx, bson.M{"_id": objectID, "user_id": userID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// formatOrderResponse joins each line with its product at read time.
// Missing products leave the line intact with no product attached.
func formatOrderResponse(ctx context.Context, order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		response := OrderItemResponse{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			SelectedOption:  item.SelectedOption,
		}
		if product, err := db.GetProduct(ctx, item.ProductID); err == nil {
			product.ImageURL = utils.PresignImageURL(ctx, product.ImageURL)
			response.Product = product
		}
		items = append(items, response)
	}

	return OrderResponse{
		ID:              order.ID.Hex(),
		UserID:          order.UserID,
		OrderDate:       order.OrderDate,
		DeliveryAddress: order.DeliveryAddress,
		ReceiverPhone:   order.ReceiverPhone,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		OrderStatus:     order.OrderStatus,
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		Discount:        order.Discount,
	}
}
