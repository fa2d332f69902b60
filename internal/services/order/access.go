package order

import (
	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

// The access rules live here as plain data so they can be tested without a
// request in sight. Role precedence for updates is manager over delivery:
// a caller holding both groups is treated as a manager.

// mutableFields maps a role to the only order fields it may patch.
var mutableFields = map[models.Role]map[string]bool{
	models.RoleManager:  {"delivery_crew": true},
	models.RoleDelivery: {"status": true},
}

// ListScope describes which orders a caller may list.
type ListScope int

const (
	// ScopeAll lists every order.
	ScopeAll ListScope = iota
	// ScopeAssigned lists orders whose delivery crew is the caller.
	ScopeAssigned
	// ScopeOwn lists orders the caller placed.
	ScopeOwn
)

// ScopeFor returns the listing scope for a caller.
func ScopeFor(user *models.User) ListScope {
	switch {
	case user.IsManager():
		return ScopeAll
	case user.IsDelivery():
		return ScopeAssigned
	default:
		return ScopeOwn
	}
}

// CanRead reports whether the caller may fetch a single order. Managers
// read any order, everyone else only their own.
func CanRead(user *models.User, o *models.Order) bool {
	return user.IsManager() || o.UserID == user.ID
}

// CanDelete reports whether the caller may delete an order.
func CanDelete(user *models.User) bool {
	return user.IsManager()
}

// AuthorizePatch validates a partial update's field set against the
// caller's role. Checks run in a fixed order: role membership first, then
// the field whitelist for whichever role applies.
func AuthorizePatch(user *models.User, patch *models.OrderPatch) error {
	if !user.IsManager() && !user.IsDelivery() {
		return apperror.Forbidden("You do not have permission to edit orders: not manager or delivery crew.")
	}

	role := models.RoleDelivery
	if user.IsManager() {
		role = models.RoleManager
	}

	allowed := mutableFields[role]
	for field := range patch.Fields {
		if !allowed[field] {
			if role == models.RoleManager {
				return apperror.Validation("only delivery_crew can be updated")
			}
			return apperror.Validation("only status can be updated")
		}
	}
	return nil
}
