package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

// PostgresRepository implements Repository over the shared pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a catalog repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectItemSQL = `
	SELECT m.id, m.title, m.price, m.inventory, m.featured,
	       c.id, c.slug, c.title
	FROM menu_items m
	JOIN categories c ON c.id = m.category_id`

func scanItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	var category models.Category
	err := row.Scan(&item.ID, &item.Title, &item.Price, &item.Inventory, &item.Featured,
		&category.ID, &category.Slug, &category.Title)
	if err != nil {
		return nil, err
	}
	item.Category = &category
	return &item, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, filter *models.MenuItemFilter) ([]models.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		where = append(where, "c.title = "+arg(filter.Category))
	}
	if filter.ToPrice != nil {
		where = append(where, "m.price <= "+arg(*filter.ToPrice))
	}
	if filter.Search != "" {
		where = append(where, "m.title ILIKE "+arg("%"+filter.Search+"%"))
	}

	sql := selectItemSQL
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	// The select joins categories, so sort columns are qualified to keep
	// names like title unambiguous.
	if ordering := filter.OrderingSQL(); ordering != "" {
		parts := strings.Split(ordering, ", ")
		for i := range parts {
			parts[i] = "m." + parts[i]
		}
		sql += " ORDER BY " + strings.Join(parts, ", ")
	} else {
		sql += " ORDER BY m.id"
	}
	sql += fmt.Sprintf(" LIMIT %s OFFSET %s",
		arg(filter.PerPage), arg((filter.Page-1)*filter.PerPage))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, selectItemSQL+" WHERE m.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Menu item not found.")
		}
		return nil, fmt.Errorf("get menu item %d: %w", id, err)
	}
	return item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_items (title, price, inventory, category_id, featured)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.Title, item.Price, item.Inventory, item.Category.ID, item.Featured,
	).Scan(&item.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("menu item with this title already exists", err)
		}
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE menu_items
		SET title = $1, price = $2, inventory = $3, category_id = $4, featured = $5
		WHERE id = $6`,
		item.Title, item.Price, item.Inventory, item.Category.ID, item.Featured, item.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("menu item with this title already exists", err)
		}
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Menu item not found.")
	}
	return nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Menu item not found.")
	}
	return nil
}

func (r *PostgresRepository) GetFeatured(ctx context.Context) (*models.MenuItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, selectItemSQL+" WHERE m.featured LIMIT 1"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("No special item for today.")
		}
		return nil, fmt.Errorf("get featured item: %w", err)
	}
	return item, nil
}

// SetFeatured clears every featured flag and sets the new one in a single
// transaction, so the one-special invariant holds once the call commits.
func (r *PostgresRepository) SetFeatured(ctx context.Context, id int64) (*models.MenuItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin set featured: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE menu_items SET featured = FALSE WHERE featured`); err != nil {
		return nil, fmt.Errorf("clear featured: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE menu_items SET featured = TRUE WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("set featured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NotFound("Menu item not found.")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit set featured: %w", err)
	}
	return r.GetMenuItem(ctx, id)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, title FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, `SELECT id, slug, title FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Slug, &c.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Category not found.")
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (slug, title) VALUES ($1, $2) RETURNING id`,
		c.Slug, c.Title).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE categories SET slug = $1, title = $2 WHERE id = $3`, c.Slug, c.Title, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Category not found.")
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Category not found.")
	}
	return nil
}
