package models

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Category groups menu items.
type Category struct {
	ID    int64  `json:"id" db:"id"`
	Slug  string `json:"slug" db:"slug"`
	Title string `json:"title" db:"title"`
}

// MenuItem is a purchasable item on the menu. At most one item is featured
// at any time; the featured toggle enforces that, not a constraint.
type MenuItem struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Inventory *int            `json:"inventory,omitempty" db:"inventory"`
	Category  *Category       `json:"category,omitempty"`
	Featured  bool            `json:"featured" db:"featured"`
}

// MinPrice is the lowest allowed menu item price.
var MinPrice = decimal.NewFromInt(2)

const (
	MaxInventory = 400
	// DefaultCategoryID is the category items fall into when none is given.
	DefaultCategoryID = 1
)

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Validate checks the category payload.
func (r *CategoryRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	for _, c := range r.Slug {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return fmt.Errorf("slug must be alphanumeric")
		}
	}
	return nil
}

// MenuItemRequest is the payload for creating or updating a menu item.
// Pointer fields distinguish absent from zero for partial updates.
type MenuItemRequest struct {
	Title      *string          `json:"title,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Inventory  *int             `json:"inventory,omitempty"`
	CategoryID *int64           `json:"category_id,omitempty"`
	Featured   *bool            `json:"featured,omitempty"`
}

// Validate checks whichever fields are present. When partial is false all
// required fields must be present.
func (r *MenuItemRequest) Validate(partial bool) error {
	if !partial {
		if r.Title == nil {
			return fmt.Errorf("title is required")
		}
		if r.Price == nil {
			return fmt.Errorf("price is required")
		}
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if r.Price != nil && r.Price.LessThan(MinPrice) {
		return fmt.Errorf("price should not be less than 2.0")
	}
	if r.Inventory != nil {
		if *r.Inventory < 0 {
			return fmt.Errorf("stock cannot be negative")
		}
		if *r.Inventory > MaxInventory {
			return fmt.Errorf("stock cannot exceed %d", MaxInventory)
		}
	}
	return nil
}

// MenuItemFilter narrows and pages the menu item listing.
type MenuItemFilter struct {
	Category string
	ToPrice  *decimal.Decimal
	Search   string
	Ordering []string
	Page     int
	PerPage  int
}

// Menu listing sort keys map directly to columns, so they are whitelisted.
var orderingColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"price":     "price",
	"inventory": "inventory",
	"featured":  "featured",
}

// OrderingSQL renders the whitelisted ordering fields as an ORDER BY body.
// Unknown keys are dropped; an empty result means default ordering.
func (f *MenuItemFilter) OrderingSQL() string {
	var parts []string
	for _, field := range f.Ordering {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		col, ok := orderingColumns[strings.TrimPrefix(field, "-")]
		if !ok {
			continue
		}
		if desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	return strings.Join(parts, ", ")
}
