package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/export"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// BulkUpdateRequest applies one or both status changes to a set of orders
type BulkUpdateRequest struct {
	OrderIDs      []string `json:"order_ids"`
	OrderStatus   string   `json:"order_status"`
	PaymentStatus string   `json:"payment_status"`
}

// CustomOrderRequest is an admin-authored order that bypasses stock checks
type CustomOrderRequest struct {
	UserID          string             `json:"user_id"`
	DeliveryAddress string             `json:"delivery_address"`
	ReceiverPhone   string             `json:"receiver_phone"`
	Items           []models.OrderItem `json:"items"`
	OrderStatus     string             `json:"order_status"`
	PaymentStatus   string             `json:"payment_status"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	TotalAmount     *float64           `json:"total_amount"`
}

// ExportOrdersRequest selects which orders go into the spreadsheet
type ExportOrdersRequest struct {
	Format       string     `json:"format"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	StatusFilter string     `json:"status_filter"`
}

// AdminListOrdersHandler returns all orders; status=active keeps
// pending/processing/shipped, status=past keeps delivered/cancelled
func AdminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin List Orders API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	filter := bson.M{}
	switch r.URL.Query().Get("status") {
	case "active":
		filter["order_status"] = bson.M{"$in": []string{
			models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		}}
	case "past":
		filter["order_status"] = bson.M{"$in": []string{
			models.OrderStatusDelivered, models.OrderStatusCancelled,
		}}
	}

	ctx := r.Context()
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := db.Collection("orders").Find(ctx, filter, opts)
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

// BulkUpdateOrdersHandler applies status changes to all matching orders in
// one pass. Best-effort: there is no rollback if the store fails mid-batch;
// the response reports how many documents were modified.
func BulkUpdateOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Bulk Update Orders API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var req BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.OrderIDs) == 0 {
		utils.RespondError(w, &logMessageBuilder, "No order IDs provided", http.StatusBadRequest)
		return
	}

	fields, errMsg := bulkUpdateFields(req)
	if errMsg != "" {
		utils.RespondError(w, &logMessageBuilder, errMsg, http.StatusBadRequest)
		return
	}

	objectIDs := make([]primitive.ObjectID, 0, len(req.OrderIDs))
	for _, id := range req.OrderIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid order id %s", id), http.StatusBadRequest)
			return
		}
		objectIDs = append(objectIDs, objectID)
	}

	result, err := db.Collection("orders").UpdateMany(r.Context(),
		bson.M{"_id": bson.M{"$in": objectIDs}},
		bson.M{"$set": fields},
	)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update orders", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Bulk updated %d orders", result.ModifiedCount))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        fmt.Sprintf("Updated %d orders", result.ModifiedCount),
		"modified_count": result.ModifiedCount,
	})
}

// bulkUpdateFields validates and selects the status fields of a bulk update.
// A non-empty second return is a validation error message.
func bulkUpdateFields(req BulkUpdateRequest) (bson.M, string) {
	fields := bson.M{}
	if req.OrderStatus != "" {
		if !models.ValidOrderStatus(req.OrderStatus) {
			return nil, fmt.Sprintf("Unknown order status %q", req.OrderStatus)
		}
		fields["order_status"] = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		if !models.ValidPaymentStatus(req.PaymentStatus) {
			return nil, fmt.Sprintf("Unknown payment status %q", req.PaymentStatus)
		}
		fields["payment_status"] = req.PaymentStatus
	}
	if len(fields) == 0 {
		return nil, "No update fields provided"
	}
	return fields, ""
}

// AdminUpdateOrderHandler applies admin corrections: statuses, address,
// phone, and full item-list replacement with a recomputed total. Replacing
// items re-validates product existence but does not touch stock; stock was
// accounted for when the order was placed.
func AdminUpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Update Order API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("order_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	orders := db.Collection("orders")
	ctx := r.Context()

	if err := orders.FindOne(ctx, bson.M{"_id": objectID}).Err(); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	var update models.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields := bson.M{}
	if update.OrderStatus != nil {
		if !models.ValidOrderStatus(*update.OrderStatus) {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown order status %q", *update.OrderStatus), http.StatusBadRequest)
			return
		}
		fields["order_status"] = *update.OrderStatus
	}
	if update.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*update.PaymentStatus) {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown payment status %q", *update.PaymentStatus), http.StatusBadRequest)
			return
		}
		fields["payment_status"] = *update.PaymentStatus
	}
	if update.DeliveryAddress != nil {
		fields["delivery_address"] = *update.DeliveryAddress
	}
	if update.ReceiverPhone != nil {
		fields["receiver_phone"] = *update.ReceiverPhone
	}
	if update.Items != nil {
		for _, item := range *update.Items {
			if _, err := db.GetProduct(ctx, item.ProductID); err != nil {
				if err == db.ErrNotFound {
					utils.RespondError(w, &logMessageBuilder,
						fmt.Sprintf("Product with id %s not found", item.ProductID), http.StatusNotFound)
				} else {
					utils.RespondError(w, &logMessageBuilder, "Failed to fetch product", http.StatusInternalServerError)
				}
				return
			}
		}
		fields["items"] = *update.Items
		fields["total_amount"] = models.ItemsSubtotal(*update.Items)
	}

	if len(fields) > 0 {
		if _, err := orders.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}); err != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to update order", http.StatusInternalServerError)
			return
		}
	}

	var updated models.Order
	if err := orders.FindOne(ctx, bson.M{"_id": objectID}).Decode(&updated); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch updated order", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated order %s", objectID.Hex()))
	utils.RespondJSON(w, http.StatusOK, formatOrderResponse(ctx, &updated))
}

// AdminDeleteOrderHandler removes an order permanently
func AdminDeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Delete Order API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("order_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	result, err := db.Collection("orders").DeleteOne(r.Context(), bson.M{"_id": objectID})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete order", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Order not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted order %s", objectID.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

// CreateCustomOrderHandler records an admin-authored order. Stock checks are
// bypassed entirely. A percentage or fixed discount applies to the item
// subtotal; an explicit total_amount overrides everything.
func CreateCustomOrderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Custom Order API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var req CustomOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Order must contain at least one item", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	userObjectID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userObjectID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		}
		return
	}

	orderStatus := req.OrderStatus
	if orderStatus == "" {
		orderStatus = models.OrderStatusPending
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}
	if !models.ValidOrderStatus(orderStatus) || !models.ValidPaymentStatus(paymentStatus) {
		utils.RespondError(w, &logMessageBuilder, "Unknown status value", http.StatusBadRequest)
		return
	}

	baseTotal := models.ItemsSubtotal(req.Items)
	totalAmount := baseTotal

	var discount *models.Discount
	if req.DiscountType != "" {
		if req.DiscountType != models.DiscountTypePercentage && req.DiscountType != models.DiscountTypeFixed {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown discount type %q", req.DiscountType), http.StatusBadRequest)
			return
		}
		totalAmount = models.ApplyDiscount(baseTotal, req.DiscountType, req.DiscountValue)
		discount = &models.Discount{
			Type:          req.DiscountType,
			Value:         req.DiscountValue,
			OriginalTotal: baseTotal,
		}
	}

	// Explicit total wins over any discount math
	if req.TotalAmount != nil {
		totalAmount = *req.TotalAmount
	}

	order := models.Order{
		UserID:          req.UserID,
		OrderDate:       time.Now().UTC(),
		DeliveryAddress: req.DeliveryAddress,
		ReceiverPhone:   req.ReceiverPhone,
		Items:           req.Items,
		TotalAmount:     totalAmount,
		OrderStatus:     orderStatus,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   "admin_custom_order",
		Discount:        discount,
	}

	result, err := db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create order", http.StatusInternalServerError)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created custom order %s", order.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, formatOrderResponse(ctx, &order))
}

// ExportOrdersHandler renders the filtered orders into a spreadsheet and
// streams it back as an attachment. The export runs synchronously in the
// request.
func ExportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Export Orders API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var req ExportOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	filter := bson.M{}
	if req.StatusFilter != "" && req.StatusFilter != "all" {
		filter["order_status"] = req.StatusFilter
	}
	dateFilter := bson.M{}
	if req.StartDate != nil {
		dateFilter["$gte"] = *req.StartDate
	}
	if req.EndDate != nil {
		// Add a day so the end date is included fully
		dateFilter["$lt"] = req.EndDate.Add(24 * time.Hour)
	}
	if len(dateFilter) > 0 {
		filter["order_date"] = dateFilter
	}

	ctx := r.Context()

	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: 1}})
	cursor, err := db.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to decode orders", http.StatusInternalServerError)
		return
	}

	users, err := fetchAllUsers(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	usersByID := make(map[string]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID.Hex()] = user
	}

	productsByID, err := fetchOrderProducts(r, orders)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	rows := export.BuildOrderRows(orders, usersByID, productsByID)
	data, err := export.RenderOrdersWorkbook(rows, export.BuildUserRows(users))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to build spreadsheet", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("orders_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Exported %d rows", len(rows)))
}

// fetchOrderProducts loads every product referenced by the orders, keyed by
// hex id. Products that have been deleted since are simply absent.
func fetchOrderProducts(r *http.Request, orders []models.Order) (map[string]models.Product, error) {
	ids := []primitive.ObjectID{}
	seen := map[string]bool{}
	for _, order := range orders {
		for _, item := range order.Items {
			if seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			if objectID, err := primitive.ObjectIDFromHex(item.ProductID); err == nil {
				ids = append(ids, objectID)
			}
		}
	}

	productsByID := map[string]models.Product{}
	if len(ids) == 0 {
		return productsByID, nil
	}

	cursor, err := db.Collection("products").Find(r.Context(), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cursor.All(r.Context(), &products); err != nil {
		return nil, err
	}
	for _, product := range products {
		productsByID[product.ID.Hex()] = product
	}
	return productsByID, nil
}
