package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawmart/internal/models"
	"pawmart/internal/session"
)

func newTestClient(t *testing.T, serverURL string) (*Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	sess := session.New(store, serverURL)
	return New(serverURL, sess), store
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.CartLine{})
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("my-access", "my-refresh"))

	_, err := client.Cart(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer my-access", gotAuth)
}

func TestClientRefreshesOnceAndRetries(t *testing.T) {
	var cartAttempts, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		cartAttempts.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-access" {
			http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]models.CartLine{{ID: 7, Type: models.ItemTypeProduct, Quantity: 2}})
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(models.RefreshResponse{Access: "fresh-access"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("stale-access", "refresh-token"))

	lines, err := client.Cart(context.Background())

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].ID)
	assert.Equal(t, int32(2), cartAttempts.Load(), "original attempt plus one retry")
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "fresh-access", store.Access())
}

func TestClientStopsAfterSecondUnauthorized(t *testing.T) {
	var cartAttempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		cartAttempts.Add(1)
		http.Error(w, `{"detail":"nope"}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.RefreshResponse{Access: "fresh-access"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("stale-access", "refresh-token"))

	_, err := client.Cart(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuthExpired)
	assert.Equal(t, int32(2), cartAttempts.Load(), "no third attempt after a retried 401")
}

func TestClientPropagatesRefreshFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"refresh expired"}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("stale-access", "dead-refresh"))

	_, err := client.Cart(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuthExpired)
	// The failed refresh clears the pair
	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "quantity must be at least 1"})
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("access", "refresh"))

	err := client.UpdateCartLine(context.Background(), 3, 5, models.ItemTypeProduct)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "quantity must be at least 1", apiErr.Message)
}

func TestUpdateCartLineClampsQuantity(t *testing.T) {
	var got models.UpdateCartRequest
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL)
	require.NoError(t, store.SetPair("access", "refresh"))

	require.NoError(t, client.UpdateCartLine(context.Background(), 3, 500, models.ItemTypeProduct))
	assert.Equal(t, "/api/cart/update/3/", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, 99, got.Quantity)

	require.NoError(t, client.UpdateCartLine(context.Background(), 3, -2, models.ItemTypeProduct))
	assert.Equal(t, 1, got.Quantity)
}

func TestAddToCartRejectsUnknownType(t *testing.T) {
	client, _ := newTestClient(t, "http://localhost:0")

	_, err := client.AddToCart(context.Background(), 1, 1, "subscription")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
