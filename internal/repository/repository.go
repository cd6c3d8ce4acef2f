package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user and address data access.
type UserRepository interface {
	// CreateUser inserts a new user. Returns model.ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByEmail retrieves a user by email. Returns nil when absent.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID retrieves a user by ID. Returns nil when absent.
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// CreateAddress inserts a new shipping address.
	CreateAddress(ctx context.Context, address *model.Address) error

	// GetAddressesByUser retrieves all addresses for a user, default first.
	GetAddressesByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// GetShippingAddress retrieves the user's default address, or the
	// oldest one when no default is set. Returns nil when the user has
	// no addresses.
	GetShippingAddress(ctx context.Context, userID uuid.UUID) (*model.Address, error)
}

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// Search retrieves active products matching the query and category
	// filter, with pagination and review aggregates.
	Search(ctx context.Context, query string, categoryID *uuid.UUID, limit, offset int) ([]model.ProductListing, error)

	// GetByID retrieves a product regardless of active flag. Returns nil
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetActiveByID retrieves an active product. Returns nil when absent
	// or inactive.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces the mutable fields of a product.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Order item snapshots keep their copied
	// fields; their product reference is nulled by the schema.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory inserts a new category.
	CreateCategory(ctx context.Context, category *model.Category) error

	// AddImage attaches an image to a product.
	AddImage(ctx context.Context, image *model.ProductImage) error

	// SetPrimaryImage marks one image as primary and demotes all other
	// images of the same product in a single transaction.
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error

	// GetImages retrieves all images for a product, primary first.
	GetImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)

	// AddAttribute attaches a name/value attribute to a product.
	AddAttribute(ctx context.Context, attribute *model.ProductAttribute) error

	// GetAttributes retrieves all attributes of a product, by name.
	GetAttributes(ctx context.Context, productID uuid.UUID) ([]model.ProductAttribute, error)

	// DeleteAttribute removes one attribute of a product.
	DeleteAttribute(ctx context.Context, productID, attributeID uuid.UUID) error
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create inserts a review. Returns model.ErrDuplicateReview when the
	// user has already reviewed the product.
	Create(ctx context.Context, review *model.Review) error

	// ListByProduct retrieves all reviews for a product, newest first.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetOrCreate retrieves the user's cart, creating it on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetByUser retrieves the user's cart. Returns nil when absent.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetByID retrieves a cart by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	// GetItem retrieves the (cart, product) item. Returns nil when absent.
	GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)

	// GetItemByID retrieves a cart item by ID. Returns nil when absent.
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)

	// CreateItem inserts a new cart item.
	CreateItem(ctx context.Context, item *model.CartItem) error

	// UpdateItemQuantity sets the quantity of an existing item.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItem removes a cart item.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// ListLines retrieves the cart's items joined with live product name,
	// price and stock.
	ListLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// ClearItems deletes all items of a cart within the provided
	// transaction. Used by checkout so the clear commits atomically with
	// the order rows.
	ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order item snapshots within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// UpdateStatus sets the status field within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error

	// AppendStatusHistory appends one ledger row within the provided transaction.
	AppendStatusHistory(ctx context.Context, tx pgx.Tx, entry *model.OrderStatusEntry) error

	// GetByID retrieves an order. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetItems retrieves the order's item snapshots.
	GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)

	// GetStatusHistory retrieves the order's ledger, newest first.
	GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusEntry, error)

	// ListByUser retrieves all orders of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves orders across all users with an optional status
	// filter and pagination, newest first.
	ListAll(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, error)
}
