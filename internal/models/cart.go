package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is one menu item with a quantity in a user's cart. A user has at
// most one line per menu item.
type CartLine struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	MenuItemID int64           `json:"menuitem_id" db:"menuitem_id"`
	Title      string          `json:"title,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity" db:"quantity"`
}

// MaxCartQuantity caps a single cart line.
const MaxCartQuantity = 40

// CartLineRequest is the payload for adding an item to the cart. The line
// is always attached to the caller; any user id in the payload is ignored.
type CartLineRequest struct {
	MenuItemID int64 `json:"menuitem_id"`
	Quantity   *int  `json:"quantity"`
}

// Validate checks the payload and clamps a negative quantity to zero.
func (r *CartLineRequest) Validate() error {
	if r.MenuItemID == 0 {
		return fmt.Errorf("menuitem_id is required")
	}
	if r.Quantity == nil {
		return fmt.Errorf("quantity is required")
	}
	if *r.Quantity < 0 {
		*r.Quantity = 0
	}
	if *r.Quantity > MaxCartQuantity {
		return fmt.Errorf("quantity cannot exceed %d", MaxCartQuantity)
	}
	return nil
}

// CartLineUpdate is the payload for changing an existing line. Only the
// quantity is mutable; the menu item is fixed once the line exists.
type CartLineUpdate struct {
	Quantity *int `json:"quantity"`
}

// Validate applies the same quantity rules as CartLineRequest.
func (u *CartLineUpdate) Validate() error {
	if u.Quantity == nil {
		return fmt.Errorf("quantity is required")
	}
	if *u.Quantity < 0 {
		*u.Quantity = 0
	}
	if *u.Quantity > MaxCartQuantity {
		return fmt.Errorf("quantity cannot exceed %d", MaxCartQuantity)
	}
	return nil
}
