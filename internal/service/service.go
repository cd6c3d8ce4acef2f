package service

import (
	"context"
	"io"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// UserService defines operations for accounts and address books.
type UserService interface {
	// Register creates a new customer account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// AddAddress adds a shipping address to the user's address book.
	AddAddress(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error)

	// ListAddresses retrieves the user's address book.
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
}

// CatalogService defines operations for browsing and managing the catalogue.
type CatalogService interface {
	// Search retrieves active products matching the query and category
	// filter, with pagination.
	Search(ctx context.Context, query string, categoryID *uuid.UUID, limit, offset int) ([]model.ProductListing, error)

	// GetProduct retrieves a full product page: images, reviews, rating.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error)

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory creates a category (vendor only).
	CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)

	// CreateProduct creates a product (vendor only).
	CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// UpdateProduct updates a product (vendor only).
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// DeleteProduct deletes a product (vendor only).
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// AttachImage stores an image file and attaches it to a product. The
	// first image of a product automatically becomes primary.
	AttachImage(ctx context.Context, productID uuid.UUID, filename, contentType string, body io.Reader) (*model.ProductImage, error)

	// SetPrimaryImage promotes one image to primary and demotes the rest.
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error

	// AddAttribute attaches a name/value attribute to a product (vendor only).
	AddAttribute(ctx context.Context, productID uuid.UUID, req *model.AttributeRequest) (*model.ProductAttribute, error)

	// DeleteAttribute removes a product attribute (vendor only).
	DeleteAttribute(ctx context.Context, productID, attributeID uuid.UUID) error

	// AddReview posts a review on behalf of a user.
	AddReview(ctx context.Context, userID, productID uuid.UUID, req *model.ReviewRequest) (*model.Review, error)
}

// CartService defines cart reconciliation operations.
type CartService interface {
	// GetCart retrieves the user's cart with live subtotals and totals.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)

	// AddItem adds a product to the cart, incrementing an existing line.
	// The resulting quantity is clamped to the product's stock.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// SetItemQuantity sets a line's quantity. Quantities above stock fail
	// with model.ErrStockExceeded; zero or negative deletes the line.
	SetItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.QuantityUpdate, error)

	// RemoveItem deletes a line owned by the user.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	// Checkout snapshots the user's cart into a new Pending order and
	// clears the cart, atomically.
	Checkout(ctx context.Context, userID uuid.UUID) (*model.OrderResponse, error)

	// GetOrderForUser retrieves an order owned by the user.
	GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*model.OrderResponse, error)

	// GetOrder retrieves any order (vendor only).
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error)

	// ListUserOrders retrieves the user's orders, newest first.
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// Cancel cancels an order on behalf of its owner. Only Pending and
	// Hold orders can be cancelled by the customer.
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*model.OrderResponse, error)

	// VendorSetStatus moves an order to any status (vendor only). The
	// role gate is enforced by middleware, not here.
	VendorSetStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, comment string) (*model.OrderResponse, error)

	// VendorListOrders retrieves orders across all users with an optional
	// status filter (vendor only).
	VendorListOrders(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, error)
}
