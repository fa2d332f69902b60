package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a checked-out cart. Created only by checkout; mutated only
// through the order access rules; deleted only by a manager.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	DeliveryCrewID *int64          `json:"delivery_crew_id,omitempty" db:"delivery_crew_id"`
	Status         bool            `json:"status" db:"status"`
	Total          decimal.Decimal `json:"total" db:"total"`
	Date           time.Time       `json:"date" db:"date"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderItem is one line of an order, copied from a cart line at checkout.
// Immutable after creation.
type OrderItem struct {
	ID         int64 `json:"id" db:"id"`
	OrderID    int64 `json:"order_id" db:"order_id"`
	MenuItemID int64 `json:"menuitem_id" db:"menuitem_id"`
	Quantity   int   `json:"quantity" db:"quantity"`
}

// OrderPatch carries the raw field set of a partial update. Only the keys
// present matter for authorization; values are validated afterwards.
type OrderPatch struct {
	Fields map[string]any
}

// Has reports whether the patch includes the named field.
func (p *OrderPatch) Has(field string) bool {
	_, ok := p.Fields[field]
	return ok
}

// CheckoutResponse confirms a successful checkout.
type CheckoutResponse struct {
	Detail  string `json:"detail"`
	OrderID int64  `json:"order_id"`
}
