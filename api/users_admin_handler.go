package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/export"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// ListUsersHandler returns all users (admin)
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin List Users API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	users, err := fetchAllUsers(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returned %d users", len(users)))
	utils.RespondJSON(w, http.StatusOK, users)
}

// CreateUserHandler creates a user on behalf of an admin; the is_admin query
// parameter grants admin rights to the new account
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Create User API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Address == "" {
		utils.RespondError(w, &logMessageBuilder, "Name and address are required", http.StatusBadRequest)
		return
	}
	if !models.ValidPhone(req.Phone) {
		utils.RespondError(w, &logMessageBuilder, "Phone number must be 10 digits", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		utils.RespondError(w, &logMessageBuilder, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	users := db.Collection("users")
	ctx := r.Context()

	taken, err := phoneTaken(users.FindOne(ctx, bson.M{"phone": req.Phone}).Err())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error checking user", http.StatusInternalServerError)
		return
	}
	if taken {
		utils.RespondError(w, &logMessageBuilder, "Phone number already registered", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	newUser := models.User{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: string(hashedPassword),
		IsAdmin:  r.URL.Query().Get("is_admin") == "true",
	}

	result, err := users.InsertOne(ctx, newUser)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
		return
	}
	newUser.ID = result.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created user %s", newUser.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, newUser)
}

// UpdateUserHandler patches any user's profile (admin); the is_admin query
// parameter toggles admin rights
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Update User API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	users := db.Collection("users")
	ctx := r.Context()

	var existing models.User
	if err := users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&existing); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields, errMsg := userUpdateFields(update)
	if errMsg != "" {
		utils.RespondError(w, &logMessageBuilder, errMsg, http.StatusBadRequest)
		return
	}
	if isAdmin := r.URL.Query().Get("is_admin"); isAdmin != "" {
		fields["is_admin"] = isAdmin == "true"
	}

	if len(fields) > 0 {
		if _, err := users.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}); err != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to update user", http.StatusInternalServerError)
			return
		}
	}

	var updated models.User
	if err := users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&updated); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch updated user", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated user %s", objectID.Hex()))
	utils.RespondJSON(w, http.StatusOK, updated)
}

// DeleteUserHandler removes a user account (admin)
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Delete User API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	objectID, err := primitive.ObjectIDFromHex(r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	users := db.Collection("users")
	ctx := r.Context()

	if err := users.FindOne(ctx, bson.M{"_id": objectID}).Err(); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	if _, err := users.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Deleted user %s", objectID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ValidateUsersHandler reports duplicate phone numbers across all users (admin)
func ValidateUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Validate Users API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	users, err := fetchAllUsers(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	seen := map[string]bool{}
	var duplicates []string
	for _, user := range users {
		if seen[user.Phone] {
			duplicates = append(duplicates, user.Phone)
		} else {
			seen[user.Phone] = true
		}
	}

	if len(duplicates) > 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"valid":      false,
			"message":    fmt.Sprintf("Found %d duplicate phone numbers", len(duplicates)),
			"duplicates": duplicates,
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"message": "All users have unique phone numbers",
	})
}

// DownloadUsersHandler exports the user list as an xlsx sheet or a vCard file
func DownloadUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Download Users API]")

	if _, ok := requireAdmin(w, r, &logMessageBuilder); !ok {
		return
	}

	users, err := fetchAllUsers(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	rows := export.BuildUserRows(users)
	today := time.Now().Format("02-Jan-2006")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "excel"
	}

	switch strings.ToLower(format) {
	case "excel":
		data, err := export.RenderUsersWorkbook(rows)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to build spreadsheet", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=Avanimitra_Users_%s.xlsx", today))
		w.Write(data)
	case "vcf":
		w.Header().Set("Content-Type", "text/vcard")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=Avanimitra_Contacts_%s.vcf", today))
		w.Write([]byte(export.RenderVCF(rows)))
	default:
		utils.RespondError(w, &logMessageBuilder, "Invalid format specified. Use 'excel' or 'vcf'.", http.StatusBadRequest)
	}
}

func fetchAllUsers(r *http.Request) ([]models.User, error) {
	cursor, err := db.Collection("users").Find(r.Context(), bson.M{})
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(r.Context(), &users); err != nil {
		return nil, err
	}
	return users, nil
}
