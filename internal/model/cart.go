package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart represents a user's shopping cart. One cart per user; the cart
// record survives checkout, only its items are cleared.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem represents one (cart, product) line with a positive quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"-" db:"cart_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// CartLine is a cart item joined with the live product it refers to.
// Subtotal is always recomputed from the live price, never stored.
type CartLine struct {
	Item          CartItem        `json:"item"`
	ProductName   string          `json:"productName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	StockQuantity int             `json:"stockQuantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CartView is the materialised cart: all lines plus totals.
type CartView struct {
	CartID     uuid.UUID       `json:"cartId"`
	Lines      []CartLine      `json:"lines"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	ItemCount  int             `json:"itemCount"`
}

// AddItemRequest represents the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// UpdateItemRequest represents the payload for changing a line quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// QuantityUpdate is the result of a quantity change: the surviving item
// (nil when the line was deleted) plus recomputed totals.
type QuantityUpdate struct {
	Item       *CartItem
	Subtotal   decimal.Decimal
	TotalPrice decimal.Decimal
}

// QuantityUpdateResponse is the structured payload returned by the
// quantity-update endpoint.
type QuantityUpdateResponse struct {
	Success    bool             `json:"success"`
	Subtotal   *decimal.Decimal `json:"subtotal,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
	Error      string           `json:"error,omitempty"`
}
