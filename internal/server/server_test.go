package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawmart/internal/config"
	"pawmart/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := NewStore()
	require.NoError(t, store.Seed())
	return New(config.ServerConfig{
		Env:            "production",
		JWTSecret:      "server-test-secret",
		AccessTTL:      time.Minute,
		RefreshTTL:     time.Hour,
		AllowedOrigins: []string{"*"},
	}, store)
}

func doJSON(t *testing.T, srv *Server, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func obtainPair(t *testing.T, srv *Server) models.TokenPair {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/token/", "", models.LoginRequest{Username: "demo", Password: "pawmart123"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair
}

func TestObtainTokenPair(t *testing.T) {
	srv := newTestServer(t)

	pair := obtainPair(t, srv)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)
}

func TestObtainTokenBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/token/", "", models.LoginRequest{Username: "demo", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshIssuesUsableAccessToken(t *testing.T) {
	srv := newTestServer(t)
	pair := obtainPair(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/token/refresh/", "", models.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed models.RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.Access)

	w = doJSON(t, srv, http.MethodGet, "/api/user/", refreshed.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/token/refresh/", "", models.RefreshRequest{Refresh: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenCannotActAsAccessToken(t *testing.T) {
	srv := newTestServer(t)
	pair := obtainPair(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/cart/", pair.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/cart/", "/api/user/", "/api/orders/"} {
		w := doJSON(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/products/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.NotEmpty(t, products)

	w = doJSON(t, srv, http.MethodGet, "/api/events/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCartRejectsOutOfRangeQuantity(t *testing.T) {
	srv := newTestServer(t)
	pair := obtainPair(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/cart/add/", pair.Access,
		models.AddToCartRequest{ItemID: 1, Quantity: 1, Type: models.ItemTypeProduct})
	require.Equal(t, http.StatusCreated, w.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))

	w = doJSON(t, srv, http.MethodPatch, "/api/cart/update/1/", pair.Access,
		models.UpdateCartRequest{Quantity: 0, Type: models.ItemTypeProduct})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPatch, "/api/cart/update/1/", pair.Access,
		models.UpdateCartRequest{Quantity: 100, Type: models.ItemTypeProduct})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
