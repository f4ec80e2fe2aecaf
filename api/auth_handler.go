package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

// SignupRequest represents the payload for user registration
type SignupRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// TokenResponse is returned by the login endpoints
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	IsAdmin     bool   `json:"is_admin"`
}

// SignupHandler handles user registration
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Signup API]")

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

	// Check if phone number exists
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
		IsAdmin:  false,
	}

	result, err := users.InsertOne(ctx, newUser)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
		return
	}
	newUser.ID = result.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("User %s registered", newUser.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, newUser)
}

// LoginHandler authenticates a customer with phone and password
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	user, ok := authenticate(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID.Hex(),
		IsAdmin:     user.IsAdmin,
	})
}

// AdminLoginHandler authenticates an admin; non-admin accounts are rejected
func AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Login API]")

	user, ok := authenticate(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	if !user.IsAdmin {
		utils.RespondError(w, &logMessageBuilder, "Not authorized as admin", http.StatusForbidden)
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), true)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Admin login successful")
	utils.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID.Hex(),
		IsAdmin:     true,
	})
}

// phoneTaken interprets the error of a phone-uniqueness lookup. A lookup
// failure is surfaced rather than treated as vacancy.
func phoneTaken(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// CreateAdminHandler seeds the bootstrap admin account so a fresh deployment
// has a way to mint its first admin. Idempotent: once the account exists the
// call reports so and changes nothing. Not linked from any client.
func CreateAdminHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Admin API]")

	users := db.Collection("users")
	ctx := r.Context()

	taken, err := phoneTaken(users.FindOne(ctx, bson.M{"phone": bootstrapAdminPhone}).Err())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error checking admin", http.StatusInternalServerError)
		return
	}
	if taken {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Admin already exists"})
		return
	}

	admin, err := bootstrapAdmin()
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	result, err := users.InsertOne(ctx, admin)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create admin", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Bootstrap admin created")
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Admin created successfully",
		"id":      result.InsertedID.(primitive.ObjectID).Hex(),
	})
}

const bootstrapAdminPhone = "9999999999"

// bootstrapAdmin builds the seed admin account. The password is a known
// default; it is expected to be changed right after first login.
func bootstrapAdmin() (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Name:     "Admin User",
		Phone:    bootstrapAdminPhone,
		Address:  "Admin Address",
		Password: string(hashed),
		IsAdmin:  true,
	}, nil
}

func authenticate(w http.ResponseWriter, r *http.Request, logger *strings.Builder) (*models.User, bool) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, logger, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}

	var user models.User
	err := db.Collection("users").FindOne(r.Context(), bson.M{"phone": req.Phone}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, logger, "Incorrect phone or password", http.StatusUnauthorized)
		} else {
			utils.RespondError(w, logger, "Database error", http.StatusInternalServerError)
		}
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, logger, "Incorrect phone or password", http.StatusUnauthorized)
		return nil, false
	}
	return &user, true
}

// MeHandler returns the authenticated user's profile
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Could not validate credentials", http.StatusUnauthorized)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateMeHandler patches the authenticated user's profile
func UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Profile API]")

	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Could not validate credentials", http.StatusUnauthorized)
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

	users := db.Collection("users")
	ctx := r.Context()

	if len(fields) > 0 {
		_, err = users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": fields})
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to update user", http.StatusInternalServerError)
			return
		}
	}

	var updated models.User
	if err := users.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&updated); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch updated user", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Profile updated")
	utils.RespondJSON(w, http.StatusOK, updated)
}

// userUpdateFields converts a patch into a $set document, hashing the
// password and validating the phone when present. A non-empty second return
// is a validation error message.
func userUpdateFields(update models.UserUpdate) (bson.M, string) {
	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Phone != nil {
		if !models.ValidPhone(*update.Phone) {
			return nil, "Phone number must be 10 digits"
		}
		fields["phone"] = *update.Phone
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if update.Password != nil {
		if len(*update.Password) < 6 {
			return nil, "Password must be at least 6 characters"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "Failed to hash password"
		}
		fields["password"] = string(hashed)
	}
	return fields, ""
}
