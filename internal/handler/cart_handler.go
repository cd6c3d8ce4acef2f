package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart reconciliation requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// GetCart handles GET /api/cart requests.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	view, err := h.service.GetCart(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /api/cart/items/{id} requests. The response is
// a structured quantity-update payload consumed by in-page cart widgets:
// on success {"success": true, "subtotal": ..., "total_price": ...}, on a
// domain failure {"success": false, "error": ...} with an HTTP 200 so the
// widget can render the message inline.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseIDSuffix(r.URL.Path, "/api/cart/items/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID format", h.logger)
		return
	}

	var req model.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	update, err := h.service.SetItemQuantity(r.Context(), middleware.UserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		var derr *model.DomainError
		if errors.As(err, &derr) {
			writeJSON(w, http.StatusOK, model.QuantityUpdateResponse{
				Success: false,
				Error:   derr.Message,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.QuantityUpdateResponse{
		Success:    true,
		Subtotal:   &update.Subtotal,
		TotalPrice: &update.TotalPrice,
	})
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseIDSuffix(r.URL.Path, "/api/cart/items/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID format", h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), middleware.UserID(r.Context()), itemID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

// Items dispatches /api/cart/items/{id} by method.
func (h *CartHandler) Items(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.UpdateItem(w, r)
	case http.MethodDelete:
		h.RemoveItem(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}
