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

// ListSurveyProductsHandler returns the survey product list. Public.
func ListSurveyProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := db.GetSurveyProducts(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch survey products", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, products)
}

// SubmitSurveyHandler records a survey response. A resubmission from the
// same mobile number replaces the earlier one. Public.
func SubmitSurveyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Submit Survey API]")

	var response models.SurveyResponse
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if response.Name == "" || response.Mobile == "" {
		utils.RespondError(w, &logMessageBuilder, "Name and mobile are required", http.StatusBadRequest)
		return
	}

	_, existsErr := db.GetSurveyResponseByMobile(r.Context(), response.Mobile)

	saved, err := db.UpsertSurveyResponse(r.Context(), &response)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to save survey response", http.StatusInternalServerError)
		return
	}

	message := "Survey submitted successfully"
	if existsErr == nil {
		message = "Survey response updated successfully"
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved survey response for %s", response.Mobile))
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"id":      saved.ID.Hex(),
	})
}

// CheckSurveyHandler reports whether a mobile number already submitted. Public.
func CheckSurveyHandler(w http.ResponseWriter, r *http.Request) {
	_, err := db.GetSurveyResponseByMobile(r.Context(), r.PathValue("mobile"))
	if err != nil && err != db.ErrNotFound {
		utils.RespondError(w, nil, "Failed to check survey submission", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"submitted": err == nil})
}

// AdminListSurveyResponsesHandler returns all survey responses (admin)
func AdminListSurveyResponsesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin List Survey Responses API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	responses, err := db.GetSurveyResponses(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch survey responses", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returned %d responses", len(responses)))
	utils.RespondJSON(w, http.StatusOK, responses)
}

// AdminCreateSurveyProductHandler adds a survey product (admin)
func AdminCreateSurveyProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Create Survey Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var product models.SurveyProduct
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.Name == "" {
		utils.RespondError(w, &logMessageBuilder, "Name is required", http.StatusBadRequest)
		return
	}

	created, err := db.CreateSurveyProduct(r.Context(), &product)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create survey product", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created survey product %s", created.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, created)
}

// AdminUpdateSurveyProductHandler patches a survey product (admin)
func AdminUpdateSurveyProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Update Survey Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	productID := r.PathValue("product_id")
	if _, err := db.GetSurveyProduct(r.Context(), productID); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	var update models.SurveyProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := db.UpdateSurveyProduct(r.Context(), productID, update)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update survey product", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated survey product %s", productID))
	utils.RespondJSON(w, http.StatusOK, updated)
}

// AdminDeleteSurveyProductHandler removes a survey product (admin)
func AdminDeleteSurveyProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Delete Survey Product API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	productID := r.PathValue("product_id")
	if _, err := db.GetSurveyProduct(r.Context(), productID); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusNotFound)
		return
	}

	if err := db.DeleteSurveyProduct(r.Context(), productID); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete survey product", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted survey product %s", productID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
