// Package catalog manages categories and menu items.
package catalog

import (
	"context"
	"fmt"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

// Repository is the storage surface the catalog needs. SetFeatured must
// clear every featured flag and set the new one inside one transaction.
type Repository interface {
	ListMenuItems(ctx context.Context, filter *models.MenuItemFilter) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
	GetFeatured(ctx context.Context) (*models.MenuItem, error)
	SetFeatured(ctx context.Context, id int64) (*models.MenuItem, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// Service exposes catalog reads and manager-side writes.
type Service struct {
	repo Repository
}

// NewService creates a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const (
	defaultPerPage = 2
	defaultPage    = 1
)

// ListMenuItems returns a filtered, paginated page of the menu. A page
// past the end yields an empty list, not an error.
func (s *Service) ListMenuItems(ctx context.Context, filter *models.MenuItemFilter) ([]models.MenuItem, error) {
	if filter.PerPage <= 0 {
		filter.PerPage = defaultPerPage
	}
	if filter.Page <= 0 {
		filter.Page = defaultPage
	}
	return s.repo.ListMenuItems(ctx, filter)
}

// GetMenuItem returns one item or a not-found error.
func (s *Service) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

// CreateMenuItem validates and stores a new item.
func (s *Service) CreateMenuItem(ctx context.Context, req *models.MenuItemRequest) (*models.MenuItem, error) {
	if err := req.Validate(false); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	item := &models.MenuItem{
		Title:     *req.Title,
		Price:     *req.Price,
		Inventory: req.Inventory,
	}
	categoryID := int64(models.DefaultCategoryID)
	if req.CategoryID != nil {
		categoryID = *req.CategoryID
	}
	if err := s.attachCategory(ctx, item, categoryID); err != nil {
		return nil, err
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}

	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem applies a full or partial update.
func (s *Service) UpdateMenuItem(ctx context.Context, id int64, req *models.MenuItemRequest, partial bool) (*models.MenuItem, error) {
	if err := req.Validate(partial); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Inventory != nil {
		item.Inventory = req.Inventory
	}
	if req.CategoryID != nil {
		if err := s.attachCategory(ctx, item, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}

	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) attachCategory(ctx context.Context, item *models.MenuItem, categoryID int64) error {
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		if apperror.StatusCode(err) == 404 {
			return apperror.Validation(fmt.Sprintf("category %d does not exist", categoryID))
		}
		return err
	}
	item.Category = category
	return nil
}

// DeleteMenuItem removes one item.
func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.repo.DeleteMenuItem(ctx, id)
}

// Featured returns today's special.
func (s *Service) Featured(ctx context.Context) (*models.MenuItem, error) {
	return s.repo.GetFeatured(ctx)
}

// SetFeatured makes the given item the only featured one. The clear and
// the set run in a single transaction so a reader never sees two specials
// once the call returns.
func (s *Service) SetFeatured(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.repo.SetFeatured(ctx, id)
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// CreateCategory validates and stores a category.
func (s *Service) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	c := &models.Category{Slug: req.Slug, Title: req.Title}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory validates and replaces a category's fields.
func (s *Service) UpdateCategory(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Slug = req.Slug
	c.Title = req.Title
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}
