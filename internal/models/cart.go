package models

// Cart line types. A line refers either to a product or to an event ticket.
const (
	ItemTypeProduct = "product"
	ItemTypeEvent   = "event"
)

// Quantity bounds enforced client-side before any network call
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// CartLine represents one purchasable unit in the cart
type CartLine struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	ItemID      int      `json:"item_id"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"price"`
	TotalAmount float64  `json:"total_amount"`
	Product     *Product `json:"product_details,omitempty"`
	Event       *Event   `json:"event_details,omitempty"`
}

// Name returns a display name for the line's underlying item
func (l CartLine) Name() string {
	switch {
	case l.Product != nil:
		return l.Product.Name
	case l.Event != nil:
		return l.Event.Name
	default:
		return ""
	}
}

// ClampQuantity clamps q to the allowed [MinQuantity, MaxQuantity] range.
// Out-of-range input is corrected silently rather than rejected.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// ValidItemType reports whether t is a known cart line type
func ValidItemType(t string) bool {
	return t == ItemTypeProduct || t == ItemTypeEvent
}

// CartTotal returns the sum of each line's total amount
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.TotalAmount
	}
	return total
}

// AddToCartRequest is the payload for adding a line to the cart
type AddToCartRequest struct {
	ItemID   int    `json:"item_id"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
}

// UpdateCartRequest is the payload for changing a line's quantity
type UpdateCartRequest struct {
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
}
