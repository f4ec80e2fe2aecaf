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

// GetPaymentSettingsHandler returns the bank/UPI details customers pay to.
// Public; the singleton is created with defaults on first read.
func GetPaymentSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := db.GetPaymentSettings(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch payment settings", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}

// AdminGetPaymentSettingsHandler returns the settings to an admin
func AdminGetPaymentSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Get Payment Settings API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	settings, err := db.GetPaymentSettings(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch payment settings", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}

// UpdatePaymentSettingsHandler replaces the singleton's fields (admin)
func UpdatePaymentSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Update Payment Settings API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var settings models.PaymentSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := db.UpdatePaymentSettings(r.Context(), &settings)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update payment settings", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Payment settings updated")
	utils.RespondJSON(w, http.StatusOK, updated)
}
