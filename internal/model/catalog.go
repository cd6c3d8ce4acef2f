package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents a product category. Categories may nest via ParentID.
type Category struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
}

// Product represents a catalogue product. Inactive products are hidden
// from the public catalogue but remain referenced by historic orders.
type Product struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CategoryID      uuid.UUID       `json:"categoryId" db:"category_id"`
	Name            string          `json:"name" db:"name"`
	DescriptionHTML string          `json:"descriptionHtml" db:"description_html"`
	Price           decimal.Decimal `json:"price" db:"price"`
	StockQuantity   int             `json:"stockQuantity" db:"stock_quantity"`
	IsActive        bool            `json:"isActive" db:"is_active"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// ProductImage represents one image attached to a product. At most one
// image per product is primary.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	ObjectKey string    `json:"objectKey" db:"object_key"`
	IsPrimary bool      `json:"isPrimary" db:"is_primary"`
}

// ProductAttribute is a free-form name/value pair on a product, for
// specs that vary per product (brand, material, CPU model).
type ProductAttribute struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Value     string    `json:"value" db:"value"`
}

// Review represents a customer review. One review per (product, user).
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductListing is a catalogue search row: the product plus its review
// aggregates and primary image, computed by the query.
type ProductListing struct {
	Product
	PrimaryImageKey *string `json:"primaryImageKey,omitempty" db:"primary_image_key"`
	AverageRating   float64 `json:"averageRating" db:"average_rating"`
	ReviewCount     int     `json:"reviewCount" db:"review_count"`
}

// ProductDetail is the full product page payload.
type ProductDetail struct {
	Product
	Images        []ProductImage     `json:"images"`
	Attributes    []ProductAttribute `json:"attributes"`
	Reviews       []Review           `json:"reviews"`
	AverageRating float64            `json:"averageRating"`
}

// ProductRequest represents the vendor payload for creating or updating
// a product.
type ProductRequest struct {
	CategoryID      uuid.UUID       `json:"categoryId"`
	Name            string          `json:"name"`
	DescriptionHTML string          `json:"descriptionHtml"`
	Price           decimal.Decimal `json:"price"`
	StockQuantity   int             `json:"stockQuantity"`
	IsActive        bool            `json:"isActive"`
}

// CategoryRequest represents the vendor payload for creating a category.
type CategoryRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// AttributeRequest represents the vendor payload for adding a product
// attribute.
type AttributeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ReviewRequest represents the payload for posting a product review.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
