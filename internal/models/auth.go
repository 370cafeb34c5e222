package models

// TokenPair holds the access/refresh credential pair returned by the token
// endpoint. Both values are treated as opaque strings; expiry is discovered
// reactively via a 401 response, not tracked locally.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for the token refresh exchange
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token. The refresh token is not
// rotated by the exchange.
type RefreshResponse struct {
	Access string `json:"access"`
}

// User represents the authenticated account as exposed by the user endpoint
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}
