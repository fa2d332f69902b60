package order

import (
	"context"
	"fmt"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

// Repository is the storage surface the order service needs.
type Repository interface {
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByOwner(ctx context.Context, userID int64) ([]models.Order, error)
	ListByCrew(ctx context.Context, crewID int64) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateDeliveryCrew(ctx context.Context, orderID, crewID int64) error
	UpdateStatus(ctx context.Context, orderID int64, status bool) error
	Delete(ctx context.Context, id int64) error
	HasRole(ctx context.Context, userID int64, role models.Role) (bool, error)
}

// Service exposes order administration under the role rules.
type Service struct {
	repo Repository
}

// NewService creates an order service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the orders visible to the caller: managers see all,
// delivery crew see their assignments, everyone else their own.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Order, error) {
	switch ScopeFor(user) {
	case ScopeAll:
		return s.repo.ListAll(ctx)
	case ScopeAssigned:
		return s.repo.ListByCrew(ctx, user.ID)
	default:
		return s.repo.ListByOwner(ctx, user.ID)
	}
}

// Get returns a single order when the caller may read it.
func (s *Service) Get(ctx context.Context, user *models.User, id int64) (*models.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(user, o) {
		return nil, apperror.Forbidden("You do not have permission to view this order.")
	}
	return o, nil
}

// Patch applies a partial update under the field rules: managers may
// change only delivery_crew, delivery crew only status.
func (s *Service) Patch(ctx context.Context, user *models.User, id int64, patch *models.OrderPatch) (*models.Order, error) {
	if err := AuthorizePatch(user, patch); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Has("delivery_crew") {
		crewID, err := patchInt(patch.Fields["delivery_crew"])
		if err != nil {
			return nil, apperror.Validation("delivery_crew must be a user id")
		}
		isDelivery, err := s.repo.HasRole(ctx, crewID, models.RoleDelivery)
		if err != nil {
			return nil, fmt.Errorf("check delivery role: %w", err)
		}
		if !isDelivery {
			return nil, apperror.Validation("delivery_crew must be a delivery user")
		}
		if err := s.repo.UpdateDeliveryCrew(ctx, id, crewID); err != nil {
			return nil, err
		}
		o.DeliveryCrewID = &crewID
	}

	if patch.Has("status") {
		status, err := patchBool(patch.Fields["status"])
		if err != nil {
			return nil, apperror.Validation("status must be a boolean")
		}
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
		o.Status = status
	}

	return o, nil
}

// Delete removes an order; managers only.
func (s *Service) Delete(ctx context.Context, user *models.User, id int64) error {
	if !CanDelete(user) {
		return apperror.Forbidden("You do not have permission to delete orders.")
	}
	return s.repo.Delete(ctx, id)
}

// patchInt reads a JSON-decoded numeric field as an id.
func patchInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

// patchBool reads a JSON-decoded field as a boolean; 0 and 1 are accepted
// the way form posts deliver them.
func patchBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	}
	return false, fmt.Errorf("not a boolean: %v", v)
}
