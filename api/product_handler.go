package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// ListProductsHandler returns catalog products, filterable by category,
// status and seasonal flag. Public; only active products show by default.
func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Products API]")

	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	} else {
		filter["status"] = "active"
	}
	if seasonal := r.URL.Query().Get("seasonal"); seasonal != "" {
		filter["is_seasonal"] = seasonal == "true"
	}

	ctx := r.Context()
	cursor, err := db.Collection("products").Find(ctx, filter)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to decode products", http.StatusInternalServerError)
		return
	}

	for i := range products {
		products[i].ImageURL = utils.PresignImageURL(ctx, products[i].ImageURL)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returned %d products", len(products)))
	utils.RespondJSON(w, http.StatusOK, products)
}

// GetProductHandler returns a single product by id. Public.
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Product API]")

	product, err := db.GetProduct(r.Context(), r.PathValue("product_id"))
	if err != nil {
		if err == db.ErrNotFound {
			utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Failed to fetch product", http.StatusInternalServerError)
		}
		return
	}

	product.ImageURL = utils.PresignImageURL(r.Context(), product.ImageURL)
	utils.RespondJSON(w, http.StatusOK, product)
}

// CreateProductHandler adds a catalog product (admin)
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Create Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.Name == "" {
		utils.RespondError(w, &logMessageBuilder, "Name is required", http.StatusBadRequest)
		return
	}
	if product.StockQuantity < 0 {
		utils.RespondError(w, &logMessageBuilder, "Stock quantity cannot be negative", http.StatusBadRequest)
		return
	}
	if product.HasPriceOptions && len(product.PriceOptions) == 0 {
		utils.RespondError(w, &logMessageBuilder, "has_price_options requires a non-empty price_options list", http.StatusBadRequest)
		return
	}
	if product.Status == "" {
		product.Status = "active"
	}

	product.ID = primitive.NilObjectID
	result, err := db.Collection("products").InsertOne(r.Context(), product)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create product", http.StatusInternalServerError)
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created product %s", product.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, product)
}

// UpdateProductHandler patches a catalog product (admin)
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Update Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("product_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	var update models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.OldPrice != nil {
		fields["old_price"] = *update.OldPrice
	}
	if update.ImageURL != nil {
		fields["image_url"] = *update.ImageURL
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.StockQuantity != nil {
		if *update.StockQuantity < 0 {
			utils.RespondError(w, &logMessageBuilder, "Stock quantity cannot be negative", http.StatusBadRequest)
			return
		}
		fields["stock_quantity"] = *update.StockQuantity
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.IsSeasonal != nil {
		fields["is_seasonal"] = *update.IsSeasonal
	}
	if update.PriceOptions != nil {
		fields["price_options"] = *update.PriceOptions
	}
	if update.HasPriceOptions != nil {
		fields["has_price_options"] = *update.HasPriceOptions
	}

	products := db.Collection("products")
	ctx := r.Context()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = products.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated product %s", objectID.Hex()))
	utils.RespondJSON(w, http.StatusOK, updated)
}

// DeleteProductHandler removes a catalog product (admin)
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Delete Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("product_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	result, err := db.Collection("products").DeleteOne(r.Context(), bson.M{"_id": objectID})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted product %s", objectID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// UploadProductImageHandler stores a product image on S3 and records the
// object key as the product's image reference (admin). Reads presign the key.
func UploadProductImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Upload Product Image API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	productID := r.PathValue("product_id")
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	objectKey := fmt.Sprintf("product_images/%s/%s%s", productID, uuid.New().String(), ext)

	key, err := utils.UploadFileToS3(r.Context(), file, objectKey, header.Header.Get("Content-Type"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	products := db.Collection("products")
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = products.FindOneAndUpdate(r.Context(),
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"image_url": key}},
		opts,
	).Decode(&updated)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	updated.ImageURL = utils.PresignImageURL(r.Context(), updated.ImageURL)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded image for product %s", productID))
	utils.RespondJSON(w, http.StatusOK, updated)
}
