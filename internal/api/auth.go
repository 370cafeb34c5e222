package api

import (
	"context"
	"fmt"
	"net/http"

	"pawmart/internal/models"
)

// Login exchanges credentials for a token pair and stores it in the session
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair models.TokenPair
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/token/", req, &pair); err != nil {
		return err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return fmt.Errorf("login response missing tokens: %w", models.ErrInvalidInput)
	}
	return c.session.SetTokens(pair.Access, pair.Refresh)
}

// Register creates a new account. It does not log the account in; callers
// follow up with Login.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/api/user/register/", req, nil)
}

// Logout discards the stored credential pair. Purely client-side; the server
// keeps no session state beyond the tokens themselves.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// CurrentUser fetches the profile of the authenticated account
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
