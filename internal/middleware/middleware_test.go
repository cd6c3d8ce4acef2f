package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signedToken(t *testing.T, role model.Role) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := auth.Sign(testSecret, time.Hour, &model.User{ID: userID, Role: role})
	require.NoError(t, err)
	return token, userID
}

func TestCORS_PreflightRequest(t *testing.T) {
	handler := CORS(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestAuth_MissingToken(t *testing.T) {
	logger := zerolog.Nop()
	handler := Auth(testSecret, nil, nil, logger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	logger := zerolog.Nop()
	handler := Auth(testSecret, nil, nil, logger)(okHandler())

	tests := []struct {
		name   string
		header string
	}{
		{name: "Garbage token", header: "Bearer not.a.token"},
		{name: "Wrong scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	logger := zerolog.Nop()
	handler := Auth(testSecret, nil, nil, logger)(okHandler())

	token, err := auth.Sign(testSecret, -time.Minute, &model.User{ID: uuid.New(), Role: model.RoleCustomer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	logger := zerolog.Nop()

	token, userID := signedToken(t, model.RoleCustomer)

	var seen uuid.UUID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(testSecret, nil, nil, logger)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen)
}

func TestAuth_PublicPaths(t *testing.T) {
	logger := zerolog.Nop()

	publicPaths := map[string]bool{"/health": true, "/api/auth/login": true}
	publicGETPrefixes := []string{"/api/products"}
	handler := Auth(testSecret, publicPaths, publicGETPrefixes, logger)(okHandler())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "Health is public", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Login is public", method: http.MethodPost, path: "/api/auth/login", expectedStatus: http.StatusOK},
		{name: "Product GET is public", method: http.MethodGet, path: "/api/products/" + uuid.NewString(), expectedStatus: http.StatusOK},
		{name: "Review POST needs auth", method: http.MethodPost, path: "/api/products/" + uuid.NewString() + "/reviews", expectedStatus: http.StatusUnauthorized},
		{name: "Cart needs auth", method: http.MethodGet, path: "/api/cart", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequireVendor(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		role           *model.Role
		expectedStatus int
	}{
		{name: "Vendor allowed", role: rolePtr(model.RoleVendor), expectedStatus: http.StatusOK},
		{name: "Customer rejected", role: rolePtr(model.RoleCustomer), expectedStatus: http.StatusForbidden},
		{name: "No session", role: nil, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireVendor(logger)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/vendor/orders", nil)
			if tt.role != nil {
				claims := &auth.Claims{UserID: uuid.New(), Role: *tt.role}
				req = req.WithContext(WithClaims(req.Context(), claims))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Recovery(logger)(panicking)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestLogging_CapturesStatus(t *testing.T) {
	logger := zerolog.Nop()

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Logging(logger)(notFound)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func rolePtr(r model.Role) *model.Role {
	return &r
}
