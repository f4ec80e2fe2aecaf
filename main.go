package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/avanimitra/organic-fruits-backend/api"
	"github.com/avanimitra/organic-fruits-backend/config"
	"github.com/avanimitra/organic-fruits-backend/db"
	"github.com/avanimitra/organic-fruits-backend/utils"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := db.Connect(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// S3 is only needed for image uploads, so a failure is not fatal
	if err := utils.InitS3(); err != nil {
		log.Printf("S3 init failed, image uploads disabled: %v", err)
	}

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	public := func(h http.HandlerFunc) http.HandlerFunc { return corsMiddleware(h) }
	authed := func(h http.HandlerFunc) http.HandlerFunc { return corsMiddleware(api.RequireAuth(h)) }

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/signup", public(api.SignupHandler))
	mux.HandleFunc("POST /api/auth/login", public(api.LoginHandler))
	mux.HandleFunc("POST /api/auth/admin-login", public(api.AdminLoginHandler))
	mux.HandleFunc("POST /api/auth/create-admin", public(api.CreateAdminHandler))
	mux.HandleFunc("GET /api/auth/me", authed(api.MeHandler))
	mux.HandleFunc("PUT /api/users/me", authed(api.UpdateMeHandler))

	// Users (admin)
	mux.HandleFunc("GET /api/admin/users", authed(api.ListUsersHandler))
	mux.HandleFunc("POST /api/admin/users", authed(api.CreateUserHandler))
	mux.HandleFunc("PUT /api/admin/users/{user_id}", authed(api.UpdateUserHandler))
	mux.HandleFunc("DELETE /api/admin/users/{user_id}", authed(api.DeleteUserHandler))
	mux.HandleFunc("GET /api/admin/users/validate", authed(api.ValidateUsersHandler))
	mux.HandleFunc("GET /api/admin/users/download", authed(api.DownloadUsersHandler))

	// Products
	mux.HandleFunc("GET /api/products", public(api.ListProductsHandler))
	mux.HandleFunc("GET /api/products/{product_id}", public(api.GetProductHandler))
	mux.HandleFunc("POST /api/admin/products", authed(api.CreateProductHandler))
	mux.HandleFunc("PUT /api/admin/products/{product_id}", authed(api.UpdateProductHandler))
	mux.HandleFunc("DELETE /api/admin/products/{product_id}", authed(api.DeleteProductHandler))
	mux.HandleFunc("POST /api/admin/products/{product_id}/image", authed(api.UploadProductImageHandler))

	// Cart
	mux.HandleFunc("GET /api/cart", authed(api.GetCartHandler))
	mux.HandleFunc("POST /api/cart/items", authed(api.AddCartItemHandler))
	mux.HandleFunc("PUT /api/cart/items/{product_id}", authed(api.UpdateCartItemHandler))
	mux.HandleFunc("DELETE /api/cart/items/{product_id}", authed(api.RemoveCartItemHandler))
	mux.HandleFunc("DELETE /api/cart", authed(api.ClearCartHandler))

	// Orders
	mux.HandleFunc("POST /api/orders", authed(api.CreateOrderHandler))
	mux.HandleFunc("GET /api/orders", authed(api.ListOrdersHandler))
	mux.HandleFunc("GET /api/orders/{order_id}", authed(api.GetOrderHandler))
	mux.HandleFunc("POST /api/orders/{order_id}/repeat", authed(api.RepeatOrderHandler))

	// Orders (admin)
	mux.HandleFunc("GET /api/admin/orders", authed(api.AdminListOrdersHandler))
	mux.HandleFunc("PUT /api/admin/orders/bulk-update", authed(api.BulkUpdateOrdersHandler))
	mux.HandleFunc("PUT /api/admin/orders/{order_id}", authed(api.AdminUpdateOrderHandler))
	mux.HandleFunc("DELETE /api/admin/orders/{order_id}", authed(api.AdminDeleteOrderHandler))
	mux.HandleFunc("POST /api/admin/custom-orders", authed(api.CreateCustomOrderHandler))
	mux.HandleFunc("POST /api/admin/export-orders", authed(api.ExportOrdersHandler))

	// Payment settings
	mux.HandleFunc("GET /api/payment-settings", public(api.GetPaymentSettingsHandler))
	mux.HandleFunc("GET /api/admin/payment-settings", authed(api.AdminGetPaymentSettingsHandler))
	mux.HandleFunc("PUT /api/admin/payment-settings", authed(api.UpdatePaymentSettingsHandler))

	// Survey
	mux.HandleFunc("GET /api/survey/products", public(api.ListSurveyProductsHandler))
	mux.HandleFunc("POST /api/survey/submit", public(api.SubmitSurveyHandler))
	mux.HandleFunc("GET /api/survey/check/{mobile}", public(api.CheckSurveyHandler))
	mux.HandleFunc("GET /api/admin/survey/responses", authed(api.AdminListSurveyResponsesHandler))
	mux.HandleFunc("POST /api/admin/survey/products", authed(api.AdminCreateSurveyProductHandler))
	mux.HandleFunc("PUT /api/admin/survey/products/{product_id}", authed(api.AdminUpdateSurveyProductHandler))
	mux.HandleFunc("DELETE /api/admin/survey/products/{product_id}", authed(api.AdminDeleteSurveyProductHandler))

	// Health check, also the keep-alive target
	mux.HandleFunc("GET /api/health", public(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	if config.KeepAliveURL != "" {
		go keepAlive(config.KeepAliveURL)
	}

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(mux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// keepAlive pings the deployed URL every five minutes so the free-tier host
// does not idle the instance out
func keepAlive(url string) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	client := &http.Client{Timeout: 30 * time.Second}
	for range ticker.C {
		resp, err := client.Get(url)
		if err != nil {
			log.Printf("Keep-alive ping failed: %v", err)
			continue
		}
		resp.Body.Close()
	}
}
