package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"pawmart/internal/models"
)

// Session is the single source of truth for the current credential pair. It
// owns the refresh exchange; every other component reads tokens through it.
// Safe for concurrent use.
type Session struct {
	store     Store
	client    *http.Client
	baseURL   string
	onExpired func()

	mu      sync.Mutex
	pending *refreshCall
}

// refreshCall is one in-flight refresh exchange. Concurrent callers wait on
// done and share the outcome instead of issuing their own exchange.
type refreshCall struct {
	done   chan struct{}
	access string
	err    error
}

// New creates a session over the given store. baseURL is the API origin the
// refresh exchange talks to.
func New(store Store, baseURL string) *Session {
	return &Session{
		store:   store,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

// OnExpired registers a callback fired when the session becomes unrecoverable
// (no refresh token, or the exchange itself failed). Callers typically route
// this to their login flow.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = fn
}

// SetTokens persists a new credential pair, overwriting any prior pair
func (s *Session) SetTokens(access, refresh string) error {
	return s.store.SetPair(access, refresh)
}

// AccessToken returns the current access token, or "" if none is stored
func (s *Session) AccessToken() string {
	return s.store.Access()
}

// RefreshToken returns the current refresh token, or "" if none is stored
func (s *Session) RefreshToken() string {
	return s.store.Refresh()
}

// Clear removes both tokens. Used on logout and on unrecoverable auth failure.
func (s *Session) Clear() error {
	return s.store.Clear()
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token and persists it. The exchange is single-flight: concurrent callers
// share one in-flight request and all receive its result. On any failure both
// tokens are cleared and the expiry callback fires.
func (s *Session) RefreshAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if call := s.pending; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.access, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	s.pending = call
	s.mu.Unlock()

	call.access, call.err = s.refresh(ctx)
	close(call.done)

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	return call.access, call.err
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	refresh := s.store.Refresh()
	if refresh == "" {
		s.expire()
		return "", fmt.Errorf("refresh access token: %w", models.ErrNoSession)
	}

	payload, err := json.Marshal(models.RefreshRequest{Refresh: refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.expire()
		return "", fmt.Errorf("refresh exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.expire()
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Session.refresh - exchange rejected with status %d", resp.StatusCode)
		s.expire()
		return "", fmt.Errorf("refresh exchange returned status %d: %w", resp.StatusCode, models.ErrAuthExpired)
	}

	var result models.RefreshResponse
	if err := json.Unmarshal(body, &result); err != nil {
		s.expire()
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if result.Access == "" {
		s.expire()
		return "", fmt.Errorf("refresh exchange returned no access token: %w", models.ErrAuthExpired)
	}

	// The refresh token is not rotated; only the access token is replaced.
	if err := s.store.SetAccess(result.Access); err != nil {
		return "", fmt.Errorf("failed to persist access token: %w", err)
	}

	return result.Access, nil
}

// expire clears both tokens and notifies the expiry callback
func (s *Session) expire() {
	if err := s.store.Clear(); err != nil {
		log.Printf("Session.expire - failed to clear tokens: %v", err)
	}
	s.mu.Lock()
	fn := s.onExpired
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
