package api

import (
	"context"
	"fmt"
	"net/http"

	"pawmart/internal/models"
)

// Cart lists the current cart lines
func (c *Client) Cart(ctx context.Context) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := c.do(ctx, http.MethodGet, "/api/cart/", nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// AddToCart adds a product or event ticket line. The quantity is clamped
// before it leaves the client.
func (c *Client) AddToCart(ctx context.Context, itemID, quantity int, itemType string) (*models.CartLine, error) {
	if !models.ValidItemType(itemType) {
		return nil, fmt.Errorf("unknown item type %q: %w", itemType, models.ErrInvalidInput)
	}
	req := models.AddToCartRequest{
		ItemID:   itemID,
		Quantity: models.ClampQuantity(quantity),
		Type:     itemType,
	}
	var line models.CartLine
	if err := c.do(ctx, http.MethodPost, "/api/cart/add/", req, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateCartLine persists a new quantity for one line
func (c *Client) UpdateCartLine(ctx context.Context, id, quantity int, itemType string) error {
	req := models.UpdateCartRequest{
		Quantity: models.ClampQuantity(quantity),
		Type:     itemType,
	}
	path := fmt.Sprintf("/api/cart/update/%d/", id)
	return c.do(ctx, http.MethodPatch, path, req, nil)
}

// RemoveCartLine deletes one line from the cart
func (c *Client) RemoveCartLine(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/cart/remove/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// CompleteCart finalizes the purchase. The server clears the cart atomically;
// the returned order describes what was bought.
func (c *Client) CompleteCart(ctx context.Context) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/cart/complete/", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
