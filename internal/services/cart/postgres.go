package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

// PostgresRepository implements Repository over the shared pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a cart repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.menuitem_id, m.title, m.price, ci.quantity
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.menuitem_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.MenuItemID, &line.Title, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) GetLine(ctx context.Context, userID, lineID int64) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.QueryRow(ctx, `
		SELECT ci.id, ci.user_id, ci.menuitem_id, m.title, m.price, ci.quantity
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.menuitem_id
		WHERE ci.id = $1 AND ci.user_id = $2`, lineID, userID,
	).Scan(&line.ID, &line.UserID, &line.MenuItemID, &line.Title, &line.UnitPrice, &line.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Cart item not found.")
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return &line, nil
}

// UpsertLine inserts a line or, when the (user, menuitem) pair already has
// one, replaces its quantity. The unique constraint makes a duplicate line
// impossible rather than an error to handle.
func (r *PostgresRepository) UpsertLine(ctx context.Context, userID, menuItemID int64, quantity int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, menuitem_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, menuitem_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id, user_id, menuitem_id, quantity`,
		userID, menuItemID, quantity,
	).Scan(&line.ID, &line.UserID, &line.MenuItemID, &line.Quantity)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("Menu item not found.")
		}
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT title, price FROM menu_items WHERE id = $1`, menuItemID,
	).Scan(&line.Title, &line.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("load cart line item: %w", err)
	}
	return &line, nil
}

func (r *PostgresRepository) UpdateLineQuantity(ctx context.Context, userID, lineID int64, quantity int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, menuitem_id, quantity`,
		quantity, lineID, userID,
	).Scan(&line.ID, &line.UserID, &line.MenuItemID, &line.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Cart item not found.")
		}
		return nil, fmt.Errorf("update cart line: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT title, price FROM menu_items WHERE id = $1`, line.MenuItemID,
	).Scan(&line.Title, &line.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("load cart line item: %w", err)
	}
	return &line, nil
}

func (r *PostgresRepository) DeleteLine(ctx context.Context, userID, lineID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, lineID, userID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Cart item not found.")
	}
	return nil
}

func (r *PostgresRepository) ClearCart(ctx context.Context, userID int64) error {
	if err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, delivery_crew_id, status, total, date FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total, &o.Date); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) DeliveryUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username FROM users u
		JOIN user_groups ug ON ug.user_id = u.id
		JOIN groups g ON g.id = ug.group_id
		WHERE g.name = $1
		ORDER BY u.id`, string(models.RoleDelivery))
	if err != nil {
		return nil, fmt.Errorf("list delivery users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scan delivery user: %w", err)
		}
		u.Roles = []models.Role{models.RoleDelivery}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateOrderFromCart writes the order and its items and empties the
// user's cart inside one transaction. A failure at any step rolls the
// whole conversion back, so no half-built order is ever visible and the
// cart survives a failed checkout untouched.
func (r *PostgresRepository) CreateOrderFromCart(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, delivery_crew_id, status, total, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		order.UserID, order.DeliveryCrewID, order.Status, order.Total, order.Date,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menuitem_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id`,
			order.ID, items[i].MenuItemID, items[i].Quantity,
		).Scan(&items[i].ID)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Conflict("item already in this order", err)
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	order.Items = items

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}
