package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/models"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// RequireAuth validates the bearer token, loads the authenticated user and
// stores it in the request context. Protected handlers read it back with
// GetUserFromContext.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(w, nil, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(w, nil, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			utils.RespondError(w, nil, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		var user models.User
		err = db.Collection("users").FindOne(r.Context(), bson.M{"_id": objectID}).Decode(&user)
		if err != nil {
			utils.RespondError(w, nil, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next(w, r.WithContext(ctx))
	}
}

// GetUserFromContext returns the authenticated user stored by RequireAuth
func GetUserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return user, nil
}

// requireAdmin fetches the authenticated user and writes a 403 when the
// account is not an admin. The bool reports whether the caller may proceed.
func requireAdmin(w http.ResponseWriter, r *http.Request, logger *strings.Builder) (*models.User, bool) {
	user, err := GetUserFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Could not validate credentials", http.StatusUnauthorized)
		return nil, false
	}
	if !user.IsAdmin {
		utils.RespondError(w, logger, "Not authorized", http.StatusForbidden)
		return nil, false
	}
	return user, true
}
