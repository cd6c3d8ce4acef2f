package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCancelled OrderStatus = "Cancelled"
	StatusHold      OrderStatus = "Hold"
	StatusRefunded  OrderStatus = "Refunded"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusCancelled, StatusHold, StatusRefunded:
		return true
	}
	return false
}

// CanCancel reports whether a customer may cancel an order in this state.
// Vendor-driven transitions are unrestricted; only the customer path is
// limited to Pending and Hold.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPending || s == StatusHold
}

// Order represents a placed order. Everything except Status is immutable
// after creation; TotalAmount and the address snapshot are captured at
// checkout and never re-derived.
type Order struct {
	ID                      uuid.UUID       `json:"id" db:"id"`
	UserID                  uuid.UUID       `json:"userId" db:"user_id"`
	TotalAmount             decimal.Decimal `json:"totalAmount" db:"total_amount"`
	ShippingAddressSnapshot string          `json:"shippingAddressSnapshot" db:"shipping_address_snapshot"`
	Status                  OrderStatus     `json:"status" db:"status"`
	CreatedAt               time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is an immutable line snapshot. ProductID is nullable so the
// line survives deletion of the product it was copied from.
type OrderItem struct {
	ID                  uuid.UUID       `json:"-" db:"id"`
	OrderID             uuid.UUID       `json:"-" db:"order_id"`
	ProductID           *uuid.UUID      `json:"productId,omitempty" db:"product_id"`
	ProductNameSnapshot string          `json:"productName" db:"product_name_snapshot"`
	UnitPriceSnapshot   decimal.Decimal `json:"unitPrice" db:"unit_price_snapshot"`
	Quantity            int             `json:"quantity" db:"quantity"`
}

// OrderStatusEntry is one row of the append-only status ledger.
type OrderStatusEntry struct {
	ID        uuid.UUID   `json:"-" db:"id"`
	OrderID   uuid.UUID   `json:"-" db:"order_id"`
	Status    OrderStatus `json:"status" db:"status"`
	ChangedAt time.Time   `json:"changedAt" db:"changed_at"`
	Comment   string      `json:"comment" db:"comment"`
}

// OrderResponse is an order with its items and its status history,
// history ordered newest-first.
type OrderResponse struct {
	Order
	Items   []OrderItem        `json:"items"`
	History []OrderStatusEntry `json:"history"`
}

// StatusRequest represents the vendor payload for a status change.
type StatusRequest struct {
	Status  OrderStatus `json:"status"`
	Comment string      `json:"comment,omitempty"`
}
