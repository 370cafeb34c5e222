package models

import "time"

// Product represents a storefront product
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
	InStock     bool    `json:"in_stock"`
}

// Event represents a bookable event with a per-ticket price
type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
}

// Order represents a completed purchase
type Order struct {
	ID          int         `json:"id"`
	Reference   string      `json:"reference"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderItem is one line of a completed order
type OrderItem struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	ItemID      int     `json:"item_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"price"`
	TotalAmount float64 `json:"total_amount"`
}
