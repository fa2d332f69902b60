// Package cart manages per-user carts and the checkout workflow.
package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
	"restaurant-api/internal/services/delivery"
)

// Repository is the storage surface the cart needs. CreateOrderFromCart
// must insert the order with its items and clear the user's cart in one
// transaction: either all of it commits or none of it does.
type Repository interface {
	ListLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	GetLine(ctx context.Context, userID, lineID int64) (*models.CartLine, error)
	UpsertLine(ctx context.Context, userID, menuItemID int64, quantity int) (*models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, userID, lineID int64, quantity int) (*models.CartLine, error)
	DeleteLine(ctx context.Context, userID, lineID int64) error
	ClearCart(ctx context.Context, userID int64) error

	AllOrders(ctx context.Context) ([]models.Order, error)
	DeliveryUsers(ctx context.Context) ([]models.User, error)
	CreateOrderFromCart(ctx context.Context, order *models.Order, items []models.OrderItem) error
}

// Service exposes cart operations and checkout.
type Service struct {
	repo     Repository
	strategy delivery.Strategy
}

// NewService creates a cart service using the given assignment strategy.
func NewService(repo Repository, strategy delivery.Strategy) *Service {
	return &Service{repo: repo, strategy: strategy}
}

// List returns the caller's cart lines only.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.CartLine, error) {
	return s.repo.ListLines(ctx, user.ID)
}

// Get returns one of the caller's lines. Lines owned by other users are
// indistinguishable from missing ones.
func (s *Service) Get(ctx context.Context, user *models.User, lineID int64) (*models.CartLine, error) {
	return s.repo.GetLine(ctx, user.ID, lineID)
}

// Add upserts a line for (caller, menu item): a second add for the same
// item replaces the quantity instead of duplicating the line. The line is
// attached to the caller regardless of what the payload claims.
func (s *Service) Add(ctx context.Context, user *models.User, req *models.CartLineRequest) (*models.CartLine, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	return s.repo.UpsertLine(ctx, user.ID, req.MenuItemID, *req.Quantity)
}

// UpdateQuantity changes the quantity on one of the caller's lines. It
// follows the same quantity rules as Add: negatives clamp to zero and the
// per-line cap still applies.
func (s *Service) UpdateQuantity(ctx context.Context, user *models.User, lineID int64, req *models.CartLineUpdate) (*models.CartLine, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	return s.repo.UpdateLineQuantity(ctx, user.ID, lineID, *req.Quantity)
}

// Remove deletes one of the caller's lines.
func (s *Service) Remove(ctx context.Context, user *models.User, lineID int64) error {
	return s.repo.DeleteLine(ctx, user.ID, lineID)
}

// Clear empties the caller's cart.
func (s *Service) Clear(ctx context.Context, user *models.User) error {
	return s.repo.ClearCart(ctx, user.ID)
}

// Checkout converts the caller's cart into an order. The total reflects
// menu prices as they are now, not as they were when lines were added. The
// order, its items and the cart deletion commit as one unit.
//
// Lines are read before the transaction opens: a line the same caller adds
// between this read and the commit is cleared with the rest of the cart
// without joining the order.
func (s *Service) Checkout(ctx context.Context, user *models.User) (*models.CheckoutResponse, error) {
	lines, err := s.repo.ListLines(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &apperror.Error{Kind: apperror.KindValidation, Detail: "Your cart is empty.", Err: apperror.ErrEmptyCart}
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	orders, err := s.repo.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	crew, err := s.repo.DeliveryUsers(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:         user.ID,
		DeliveryCrewID: delivery.Select(orders, crew, s.strategy),
		Total:          total,
		Date:           time.Now().UTC().Truncate(24 * time.Hour),
	}

	if err := s.repo.CreateOrderFromCart(ctx, order, items); err != nil {
		return nil, err
	}

	return &models.CheckoutResponse{
		Detail:  "Order created successfully.",
		OrderID: order.ID,
	}, nil
}
