package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pawmart/internal/models"
	"pawmart/internal/session"
)

// Client talks to the storefront REST API. Every request carries the current
// access token; a 401 triggers one refresh-and-retry cycle per request, never
// more, so a stale token cannot loop forever.
type Client struct {
	baseURL string
	client  *http.Client
	session *session.Session
}

// New creates an API client for the given origin, authenticating through sess
func New(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		session: sess,
	}
}

// SetTimeout overrides the default request timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.client.Timeout = d
}

// APIError represents a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). On a 401 for a request that has not been retried yet it refreshes
// the access token once and replays the identical request; a second 401 is
// surfaced as a terminal authentication failure.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, body, c.session.AccessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		access, err := c.session.RefreshAccessToken(ctx)
		if err != nil {
			// Refresh failures propagate as-is; the session has already
			// cleared the pair and fired its expiry callback.
			return err
		}

		resp, err = c.send(ctx, method, path, body, access)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return fmt.Errorf("%s %s: %w", method, path, models.ErrAuthExpired)
		}
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}

// send builds and issues a single request attempt with the given access token
func (c *Client) send(ctx context.Context, method, path string, body []byte, access string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	return resp, nil
}

// drain discards and closes a response body so the connection can be reused
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// errorMessage extracts a human-readable message from an error response body
func errorMessage(status int, data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, msg := range []string{payload.Error, payload.Detail, payload.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(status)
}
