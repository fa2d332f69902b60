package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMenuItemRequestValidate(t *testing.T) {
	price := decimal.NewFromFloat(12.50)
	low := decimal.NewFromFloat(1.99)

	tests := []struct {
		name    string
		req     MenuItemRequest
		partial bool
		wantErr string
	}{
		{"valid full", MenuItemRequest{Title: ptr("Pizza"), Price: &price}, false, ""},
		{"missing title", MenuItemRequest{Price: &price}, false, "title is required"},
		{"missing price", MenuItemRequest{Title: ptr("Pizza")}, false, "price is required"},
		{"blank title", MenuItemRequest{Title: ptr("   "), Price: &price}, false, "title must not be empty"},
		{"price below floor", MenuItemRequest{Title: ptr("Pizza"), Price: &low}, false, "price should not be less than 2.0"},
		{"negative stock", MenuItemRequest{Title: ptr("Pizza"), Price: &price, Inventory: ptr(-1)}, false, "stock cannot be negative"},
		{"stock over cap", MenuItemRequest{Title: ptr("Pizza"), Price: &price, Inventory: ptr(401)}, false, "stock cannot exceed 400"},
		{"partial price only", MenuItemRequest{Price: &price}, true, ""},
		{"partial bad price", MenuItemRequest{Price: &low}, true, "price should not be less than 2.0"},
		{"partial empty", MenuItemRequest{}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.partial)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCategoryRequestValidate(t *testing.T) {
	assert.NoError(t, (&CategoryRequest{Slug: "mains", Title: "Mains"}).Validate())
	assert.NoError(t, (&CategoryRequest{Slug: "cat2", Title: "Cat"}).Validate())
	assert.EqualError(t, (&CategoryRequest{Slug: "has space", Title: "X"}).Validate(), "slug must be alphanumeric")
	assert.EqualError(t, (&CategoryRequest{Slug: "a-b", Title: "X"}).Validate(), "slug must be alphanumeric")
	assert.EqualError(t, (&CategoryRequest{Title: "X"}).Validate(), "slug is required")
	assert.EqualError(t, (&CategoryRequest{Slug: "x"}).Validate(), "title is required")
}

func TestCartLineRequestValidate(t *testing.T) {
	t.Run("missing quantity rejected", func(t *testing.T) {
		req := CartLineRequest{MenuItemID: 1}
		assert.EqualError(t, req.Validate(), "quantity is required")
	})

	t.Run("negative quantity clamped to zero", func(t *testing.T) {
		req := CartLineRequest{MenuItemID: 1, Quantity: ptr(-5)}
		require.NoError(t, req.Validate())
		assert.Equal(t, 0, *req.Quantity)
	})

	t.Run("quantity over cap rejected", func(t *testing.T) {
		req := CartLineRequest{MenuItemID: 1, Quantity: ptr(41)}
		assert.EqualError(t, req.Validate(), "quantity cannot exceed 40")
	})

	t.Run("missing menuitem rejected", func(t *testing.T) {
		req := CartLineRequest{Quantity: ptr(1)}
		assert.EqualError(t, req.Validate(), "menuitem_id is required")
	})
}

func TestMenuItemFilterOrderingSQL(t *testing.T) {
	tests := []struct {
		name     string
		ordering []string
		want     string
	}{
		{"single asc", []string{"price"}, "price"},
		{"single desc", []string{"-price"}, "price DESC"},
		{"mixed", []string{"price", "-title"}, "price, title DESC"},
		{"unknown column dropped", []string{"price", "drop table"}, "price"},
		{"injection attempt dropped", []string{"price; DELETE FROM menu_items"}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := MenuItemFilter{Ordering: tt.ordering}
			assert.Equal(t, tt.want, f.OrderingSQL())
		})
	}
}

func TestUserRoles(t *testing.T) {
	u := User{ID: 1, Username: "m", Roles: []Role{RoleManager}}
	assert.True(t, u.IsManager())
	assert.False(t, u.IsDelivery())

	both := User{ID: 2, Username: "b", Roles: []Role{RoleManager, RoleDelivery}}
	assert.True(t, both.IsManager())
	assert.True(t, both.IsDelivery())
}
