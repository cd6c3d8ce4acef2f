package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeStockExceeded      = "STOCK_EXCEEDED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidRating      = "INVALID_RATING"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateReview    = "DUPLICATE_REVIEW"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cannot check out an empty cart")
	ErrStockExceeded      = NewDomainError(ErrCodeStockExceeded, "Requested quantity exceeds available stock")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "You do not have access to this resource")
	ErrInvalidTransition  = NewDomainError(ErrCodeInvalidTransition, "Order cannot be cancelled in its current status")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrNotFound           = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrDuplicateReview    = NewDomainError(ErrCodeDuplicateReview, "You have already reviewed this product")
)
