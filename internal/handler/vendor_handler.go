package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxImageUpload bounds multipart image uploads at 10 MiB.
const maxImageUpload = 10 << 20

// VendorHandler handles the vendor portal: catalogue management and
// order administration. Role enforcement happens in middleware; every
// request reaching these methods already carries a vendor session.
type VendorHandler struct {
	catalog service.CatalogService
	orders  service.OrderService
	logger  zerolog.Logger
}

// NewVendorHandler creates a new vendor handler.
func NewVendorHandler(catalog service.CatalogService, orders service.OrderService, logger zerolog.Logger) *VendorHandler {
	return &VendorHandler{
		catalog: catalog,
		orders:  orders,
		logger:  logger.With().Str("handler", "vendor").Logger(),
	}
}

// CreateProduct handles POST /api/vendor/products requests.
func (h *VendorHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Products dispatches /api/vendor/products/{id} and its image and
// attribute subroutes.
func (h *VendorHandler) Products(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/vendor/products/")
	rest = strings.TrimSuffix(rest, "/")
	segments := strings.Split(rest, "/")

	productID, err := uuid.Parse(segments[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	switch {
	case len(segments) == 1:
		h.productByID(w, r, productID)
	case len(segments) == 2 && segments[1] == "images":
		h.uploadImage(w, r, productID)
	case len(segments) == 4 && segments[1] == "images" && segments[3] == "primary":
		imageID, err := uuid.Parse(segments[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image ID format", h.logger)
			return
		}
		h.setPrimaryImage(w, r, productID, imageID)
	case len(segments) == 2 && segments[1] == "attributes":
		h.addAttribute(w, r, productID)
	case len(segments) == 3 && segments[1] == "attributes":
		attributeID, err := uuid.Parse(segments[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid attribute ID format", h.logger)
			return
		}
		h.deleteAttribute(w, r, productID, attributeID)
	default:
		writeError(w, http.StatusNotFound, "not found", h.logger)
	}
}

// productByID handles PUT and DELETE /api/vendor/products/{id} requests.
func (h *VendorHandler) productByID(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	switch r.Method {
	case http.MethodPut:
		var req model.ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
			return
		}

		product, err := h.catalog.UpdateProduct(r.Context(), productID, &req)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, product)

	case http.MethodDelete:
		if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// uploadImage handles POST /api/vendor/products/{id}/images requests
// with a multipart "image" part.
func (h *VendorHandler) uploadImage(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body", h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required", h.logger)
		return
	}
	defer file.Close()

	image, err := h.catalog.AttachImage(r.Context(), productID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, image)
}

// setPrimaryImage handles PUT /api/vendor/products/{id}/images/{imageID}/primary.
func (h *VendorHandler) setPrimaryImage(w http.ResponseWriter, r *http.Request, productID, imageID uuid.UUID) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := h.catalog.SetPrimaryImage(r.Context(), productID, imageID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "primary image updated"})
}

// addAttribute handles POST /api/vendor/products/{id}/attributes requests.
func (h *VendorHandler) addAttribute(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.AttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	attribute, err := h.catalog.AddAttribute(r.Context(), productID, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, attribute)
}

// deleteAttribute handles DELETE /api/vendor/products/{id}/attributes/{attributeID}.
func (h *VendorHandler) deleteAttribute(w http.ResponseWriter, r *http.Request, productID, attributeID uuid.UUID) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := h.catalog.DeleteAttribute(r.Context(), productID, attributeID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "attribute deleted"})
}

// CreateCategory handles POST /api/vendor/categories requests.
func (h *VendorHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// ListOrders handles GET /api/vendor/orders requests with an optional
// status filter.
func (h *VendorHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var status *model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(raw)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status parameter", h.logger)
			return
		}
		status = &s
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		var err error
		offset, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset parameter", h.logger)
			return
		}
	}

	orders, err := h.orders.VendorListOrders(r.Context(), status, limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Orders dispatches /api/vendor/orders/{id} and its status subroute.
func (h *VendorHandler) Orders(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/vendor/orders/")
	rest = strings.TrimSuffix(rest, "/")

	if raw, ok := strings.CutSuffix(rest, "/status"); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
			return
		}
		h.setStatus(w, r, id)
		return
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// setStatus handles POST /api/vendor/orders/{id}/status requests.
func (h *VendorHandler) setStatus(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	order, err := h.orders.VendorSetStatus(r.Context(), orderID, req.Status, req.Comment)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
