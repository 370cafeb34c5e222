package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawmart/internal/models"
)

// getCart lists the authenticated user's cart lines
func (s *Server) getCart(c *gin.Context) {
	lines := s.store.CartLines(c.GetInt(contextUserID))
	c.JSON(http.StatusOK, lines)
}

// addToCart creates a new cart line
func (s *Server) addToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	line, err := s.store.AddCartLine(c.GetInt(contextUserID), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		}
		return
	}

	c.JSON(http.StatusCreated, line)
}

// updateCartLine changes one line's quantity
func (s *Server) updateCartLine(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart line id"})
		return
	}

	var req models.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	line, err := s.store.UpdateCartLine(c.GetInt(contextUserID), lineID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrLineNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusOK, line)
}

// removeCartLine deletes one line
func (s *Server) removeCartLine(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart line id"})
		return
	}

	if err := s.store.RemoveCartLine(c.GetInt(contextUserID), lineID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// completeCart finalizes the purchase and clears the cart
func (s *Server) completeCart(c *gin.Context) {
	order, err := s.store.CompleteCart(c.GetInt(contextUserID))
	if err != nil {
		if errors.Is(err, models.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete purchase"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// listOrders returns the user's completed orders
func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders(c.GetInt(contextUserID)))
}
