package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pawmart/internal/models"
)

// userRecord is an account as held by the in-memory store
type userRecord struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
}

// Store is the in-memory backing state for the development server. One lock
// guards everything; cart completion reads and clears the cart under it, so
// the clear is atomic with respect to concurrent cart calls.
type Store struct {
	mu          sync.Mutex
	users       map[string]*userRecord
	products    map[int]models.Product
	events      map[int]models.Event
	carts       map[int][]models.CartLine
	orders      map[int][]models.Order
	nextUserID  int
	nextLineID  int
	nextOrderID int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*userRecord),
		products:    make(map[int]models.Product),
		events:      make(map[int]models.Event),
		carts:       make(map[int][]models.CartLine),
		orders:      make(map[int][]models.Order),
		nextUserID:  1,
		nextLineID:  1,
		nextOrderID: 1,
	}
}

// Seed populates the store with a demo catalog and a demo account
func (s *Store) Seed() error {
	products := []models.Product{
		{ID: 1, Name: "Premium Dog Food", Description: "Grain-free kibble, 10kg bag", Price: 45.99, Category: "food", InStock: true},
		{ID: 2, Name: "Cat Scratching Post", Description: "Sisal rope post with platform", Price: 29.50, Category: "furniture", InStock: true},
		{ID: 3, Name: "Adjustable Leash", Description: "Reflective nylon leash, 2m", Price: 100.00, Category: "accessories", InStock: true},
		{ID: 4, Name: "Aquarium Starter Kit", Description: "60L tank with filter and lighting", Price: 119.00, Category: "aquatics", InStock: true},
	}
	events := []models.Event{
		{ID: 1, Name: "Adoption Day", Description: "Meet dogs and cats looking for a home", Price: 0, Location: "Main Store", StartsAt: time.Now().AddDate(0, 0, 14)},
		{ID: 2, Name: "Puppy Training Workshop", Description: "Basic obedience for puppies under one year", Price: 25.00, Location: "Training Annex", StartsAt: time.Now().AddDate(0, 0, 21)},
	}

	s.mu.Lock()
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	s.mu.Unlock()

	_, err := s.CreateUser("demo", "demo@pawmart.example", "pawmart123")
	return err
}

// CreateUser registers a new account with a bcrypt-hashed password
func (s *Store) CreateUser(username, email, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, fmt.Errorf("username %q taken: %w", username, models.ErrDuplicateEntry)
	}

	record := &userRecord{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	s.nextUserID++
	s.users[username] = record

	return record.toUser(), nil
}

// Authenticate checks credentials and returns the matching account
func (s *Store) Authenticate(username, password string) (*models.User, error) {
	s.mu.Lock()
	record, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrUserNotFound
	}
	return record.toUser(), nil
}

// UserByID looks up an account by id
func (s *Store) UserByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if record.ID == id {
			return record.toUser(), nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *userRecord) toUser() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsStaff:   r.IsStaff,
	}
}

// Products lists the catalog ordered by id
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProductByID fetches one product
func (s *Store) ProductByID(id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

// Events lists events ordered by id
func (s *Store) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EventByID fetches one event
func (s *Store) EventByID(id int) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return &e, nil
}

// CartLines returns the user's cart
func (s *Store) CartLines(userID int) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

// AddCartLine appends a new line priced from the referenced product or event
func (s *Store) AddCartLine(userID int, req models.AddToCartRequest) (*models.CartLine, error) {
	if !models.ValidItemType(req.Type) {
		return nil, fmt.Errorf("unknown item type %q: %w", req.Type, models.ErrInvalidInput)
	}
	if req.Quantity < models.MinQuantity || req.Quantity > models.MaxQuantity {
		return nil, fmt.Errorf("quantity out of range: %w", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := models.CartLine{
		ID:       s.nextLineID,
		Type:     req.Type,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	}

	switch req.Type {
	case models.ItemTypeProduct:
		p, ok := s.products[req.ItemID]
		if !ok {
			return nil, models.ErrProductNotFound
		}
		line.UnitPrice = p.Price
		line.Product = &p
	case models.ItemTypeEvent:
		e, ok := s.events[req.ItemID]
		if !ok {
			return nil, models.ErrEventNotFound
		}
		line.UnitPrice = e.Price
		line.Event = &e
	}
	line.TotalAmount = float64(line.Quantity) * line.UnitPrice

	s.nextLineID++
	s.carts[userID] = append(s.carts[userID], line)

	return &line, nil
}

// UpdateCartLine sets a new quantity for one line and recomputes its total
func (s *Store) UpdateCartLine(userID, lineID int, req models.UpdateCartRequest) (*models.CartLine, error) {
	if req.Quantity < models.MinQuantity || req.Quantity > models.MaxQuantity {
		return nil, fmt.Errorf("quantity out of range: %w", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = req.Quantity
			lines[i].TotalAmount = float64(req.Quantity) * lines[i].UnitPrice
			line := lines[i]
			return &line, nil
		}
	}
	return nil, models.ErrLineNotFound
}

// RemoveCartLine deletes one line
func (s *Store) RemoveCartLine(userID, lineID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID == lineID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return models.ErrLineNotFound
}

// CompleteCart turns the cart into an order and clears it atomically
func (s *Store) CompleteCart(userID int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	order := models.Order{
		ID:        s.nextOrderID,
		Reference: uuid.New().String(),
		CreatedAt: time.Now(),
	}
	s.nextOrderID++

	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:          l.ID,
			Type:        l.Type,
			ItemID:      l.ItemID,
			Name:        l.Name(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalAmount: l.TotalAmount,
		})
		order.TotalAmount += l.TotalAmount
	}

	s.orders[userID] = append(s.orders[userID], order)
	delete(s.carts, userID)

	return &order, nil
}

// Orders lists the user's completed orders
func (s *Store) Orders(userID int) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.orders[userID]
	out := make([]models.Order, len(orders))
	copy(out, orders)
	return out
}
