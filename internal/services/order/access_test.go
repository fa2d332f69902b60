package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

var (
	manager  = &models.User{ID: 1, Username: "manager", Roles: []models.Role{models.RoleManager}}
	courier  = &models.User{ID: 2, Username: "courier", Roles: []models.Role{models.RoleDelivery}}
	customer = &models.User{ID: 3, Username: "customer"}
	both     = &models.User{ID: 4, Username: "both", Roles: []models.Role{models.RoleManager, models.RoleDelivery}}
)

func patch(fields ...string) *models.OrderPatch {
	p := &models.OrderPatch{Fields: map[string]any{}}
	for _, f := range fields {
		p.Fields[f] = true
	}
	return p
}

func TestScopeFor(t *testing.T) {
	assert.Equal(t, ScopeAll, ScopeFor(manager))
	assert.Equal(t, ScopeAssigned, ScopeFor(courier))
	assert.Equal(t, ScopeOwn, ScopeFor(customer))
	assert.Equal(t, ScopeAll, ScopeFor(both))
}

func TestCanRead(t *testing.T) {
	o := &models.Order{ID: 9, UserID: customer.ID}
	assert.True(t, CanRead(manager, o))
	assert.True(t, CanRead(customer, o))
	assert.False(t, CanRead(courier, o))
	assert.False(t, CanRead(&models.User{ID: 99}, o))
}

func TestCanDelete(t *testing.T) {
	assert.True(t, CanDelete(manager))
	assert.False(t, CanDelete(courier))
	assert.False(t, CanDelete(customer))
}

func TestAuthorizePatch(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		patch      *models.OrderPatch
		wantStatus int
		wantDetail string
	}{
		{"customer rejected", customer, patch("status"), 403, "not manager or delivery crew"},
		{"manager may set delivery_crew", manager, patch("delivery_crew"), 0, ""},
		{"manager may not set status", manager, patch("status"), 400, "only delivery_crew can be updated"},
		{"manager mixing fields rejected", manager, patch("delivery_crew", "status"), 400, "only delivery_crew can be updated"},
		{"delivery may set status", courier, patch("status"), 0, ""},
		{"delivery may not set delivery_crew", courier, patch("delivery_crew"), 400, "only status can be updated"},
		{"delivery may not touch total", courier, patch("status", "total"), 400, "only status can be updated"},
		{"delivery may not reassign owner", courier, patch("user"), 400, "only status can be updated"},
		{"both roles treated as manager", both, patch("delivery_crew"), 0, ""},
		{"both roles cannot set status", both, patch("status"), 400, "only delivery_crew can be updated"},
		{"empty patch passes role gate", courier, patch(), 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizePatch(tt.user, tt.patch)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperror.StatusCode(err))
			assert.Contains(t, apperror.Detail(err), tt.wantDetail)
		})
	}
}
