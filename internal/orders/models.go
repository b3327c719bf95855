package orders

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusInPreparation Status = "in_preparation"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
	StatusPaid          Status = "paid"
)

// Payment methods accepted at the till.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// LineItem is a snapshot of one ordered product. It holds values copied
// from the cart at checkout, not live references into the catalog.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is one completed sale in the ledger.
type Order struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	Items          []LineItem `json:"items"`
	OfferApplied   string     `json:"offer_applied"`
	DiscountAmount float64    `json:"discount_amount"`
	Subtotal       float64    `json:"subtotal"`
	Total          float64    `json:"total"`
	PaymentMethod  string     `json:"payment_method"`
	Cashier        string     `json:"cashier"`
	Status         Status     `json:"status"`
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusInPreparation, StatusCompleted, StatusCancelled, StatusPaid:
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether an order may move from one status to
// another. Orders leave in_preparation exactly once and never return.
func CanTransition(from, to Status) bool {
	if from != StatusInPreparation {
		return false
	}
	switch to {
	case StatusCompleted, StatusCancelled, StatusPaid:
		return true
	}
	return false
}
