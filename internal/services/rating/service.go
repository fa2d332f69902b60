// Package rating lets authenticated users score menu items.
package rating

import (
	"context"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

// Repository is the storage surface ratings need. Create must fail when
// the caller has already rated the menu item.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
}

// Service exposes rating operations.
type Service struct {
	repo Repository
}

// NewService creates a rating service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the caller's ratings only.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Rating, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

// Create records a score for a menu item. The rating is attached to the
// caller regardless of what the payload claims, and a second rating for
// the same item is rejected rather than overwritten.
func (s *Service) Create(ctx context.Context, user *models.User, req *models.RatingRequest) (*models.Rating, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	rating := &models.Rating{
		UserID:     user.ID,
		MenuItemID: req.MenuItemID,
		Rating:     *req.Rating,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}
