package handler

import (
	"net/http"
	"strings"

	"storefront/internal/imagestore"

	"github.com/rs/zerolog"
)

// ImageHandler serves stored product images.
type ImageHandler struct {
	store  imagestore.Store
	logger zerolog.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(store imagestore.Store, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		store:  store,
		logger: logger.With().Str("handler", "image").Logger(),
	}
}

// Serve handles GET /api/images/{key} requests. Keys contain slashes
// (product ID / image file), so the whole suffix is the object key.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/images/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "image key is required", h.logger)
		return
	}

	data, contentType, err := h.store.Get(r.Context(), key)
	if err != nil {
		h.logger.Debug().Str("key", key).Err(err).Msg("image not found")
		writeError(w, http.StatusNotFound, "image not found", h.logger)
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
