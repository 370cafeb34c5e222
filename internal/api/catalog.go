package api

import (
	"context"
	"fmt"
	"net/http"

	"pawmart/internal/models"
)

// Products lists the product catalog
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID fetches a single product
func (c *Client) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Events lists upcoming events
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/api/events/", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventByID fetches a single event
func (c *Client) EventByID(ctx context.Context, id int) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/events/%d/", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Orders lists the account's completed orders
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
