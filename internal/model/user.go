package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do. Vendors manage the
// catalogue and order fulfilment; customers shop.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Address represents a shipping address in a user's address book.
type Address struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"-" db:"user_id"`
	RecipientName string    `json:"recipientName" db:"recipient_name"`
	Line1         string    `json:"line1" db:"line1"`
	City          string    `json:"city" db:"city"`
	ZipCode       string    `json:"zipCode" db:"zip_code"`
	Country       string    `json:"country" db:"country"`
	IsDefault     bool      `json:"isDefault" db:"is_default"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest represents the payload for account registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest represents the payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AddressRequest represents the payload for adding a shipping address.
type AddressRequest struct {
	RecipientName string `json:"recipientName"`
	Line1         string `json:"line1"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"isDefault"`
}
