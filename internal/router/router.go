package router

import (
	"net/http"
	"strings"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	vendorHandler *handler.VendorHandler,
	imageHandler *handler.ImageHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)

	// Product routes: the collection is search, everything below it is a
	// product page or its review subroute.
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			catalogHandler.Products(w, r)
			return
		}
		catalogHandler.Search(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	mux.HandleFunc("/api/categories", catalogHandler.Categories)
	mux.HandleFunc("/api/images/", imageHandler.Serve)

	// Cart routes
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/":
			cartHandler.GetCart(w, r)
		case r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/":
			cartHandler.AddItem(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			cartHandler.Items(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	mux.HandleFunc("/api/checkout", orderHandler.Checkout)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.List(w, r)
			return
		}
		orderHandler.Detail(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/addresses", authHandler.Addresses)

	// Vendor routes, wrapped in the role gate. Services behind this gate
	// never re-check roles.
	vendorMux := http.NewServeMux()
	vendorMux.HandleFunc("/api/vendor/products", vendorHandler.CreateProduct)
	vendorMux.HandleFunc("/api/vendor/products/", vendorHandler.Products)
	vendorMux.HandleFunc("/api/vendor/categories", vendorHandler.CreateCategory)
	vendorRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/vendor/orders" || r.URL.Path == "/api/vendor/orders/" {
			vendorHandler.ListOrders(w, r)
			return
		}
		vendorHandler.Orders(w, r)
	}
	vendorMux.HandleFunc("/api/vendor/orders", vendorRouteHandler)
	vendorMux.HandleFunc("/api/vendor/orders/", vendorRouteHandler)
	mux.Handle("/api/vendor/", middleware.RequireVendor(logger)(vendorMux))

	publicPaths := map[string]bool{
		"/health":            true,
		"/api/auth/register": true,
		"/api/auth/login":    true,
	}
	publicGETPrefixes := []string{
		"/api/products",
		"/api/categories",
		"/api/images/",
	}

	// Apply middleware in order: Recovery -> Logging -> CORS -> Auth
	var h http.Handler = mux
	h = middleware.Auth(jwtSecret, publicPaths, publicGETPrefixes, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
