package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"pawmart/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// issueToken mints an HS256 token of the given type for a user
func (s *Server) issueToken(userID int, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"iat":        jwt.NewNumericDate(now),
		"exp":        jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// parseToken validates a token and returns the user id it was minted for.
// The token must be of the expected type so a refresh token cannot be used
// as an access token.
func (s *Server) parseToken(tokenString, wantType string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, models.ErrAuthExpired
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.ErrAuthExpired
	}
	if claims["token_type"] != wantType {
		return 0, models.ErrAuthExpired
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, models.ErrAuthExpired
	}
	return int(userID), nil
}

// obtainToken exchanges credentials for an access/refresh pair
func (s *Server) obtainToken(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "no active account found with the given credentials"})
		return
	}

	access, err := s.issueToken(user.ID, tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}
	refresh, err := s.issueToken(user.ID, tokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.TokenPair{Access: access, Refresh: refresh})
}

// refreshToken exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *Server) refreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "refresh token is required"})
		return
	}

	userID, err := s.parseToken(req.Refresh, tokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "refresh token is invalid or expired"})
		return
	}

	access, err := s.issueToken(userID, tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{Access: access})
}

// register creates a new account
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.store.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEntry):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// currentUser returns the authenticated account's profile
func (s *Server) currentUser(c *gin.Context) {
	user, err := s.store.UserByID(c.GetInt(contextUserID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

const contextUserID = "user_id"

// requireAuth validates the bearer access token and stores the user id in
// the request context
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authorization header is missing"})
		return
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authorization header must use the Bearer scheme"})
		return
	}

	userID, err := s.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "access token is invalid or expired"})
		return
	}

	c.Set(contextUserID, userID)
	c.Next()
}
