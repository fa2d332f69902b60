package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

const selectOrderSQL = `
	SELECT id, user_id, delivery_crew_id, status, total, date
	FROM orders`

// PostgresRepository implements Repository over the shared pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates an order repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, selectOrderSQL+` ORDER BY id`)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.list(ctx, selectOrderSQL+` WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepository) ListByCrew(ctx context.Context, crewID int64) ([]models.Order, error) {
	return r.list(ctx, selectOrderSQL+` WHERE delivery_crew_id = $1 ORDER BY id`, crewID)
}

func (r *PostgresRepository) list(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
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

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, selectOrderSQL+` WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total, &o.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Order not found.")
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, menuitem_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

func (r *PostgresRepository) UpdateDeliveryCrew(ctx context.Context, orderID, crewID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE orders SET delivery_crew_id = $1 WHERE id = $2`, crewID, orderID)
	if err != nil {
		return fmt.Errorf("update delivery crew: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Order not found.")
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int64, status bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Order not found.")
	}
	return nil
}

// Delete removes the order; its items go with it through the cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Order not found.")
	}
	return nil
}

func (r *PostgresRepository) HasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_groups ug
			JOIN groups g ON g.id = ug.group_id
			WHERE ug.user_id = $1 AND g.name = $2
		)`, userID, string(role)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return exists, nil
}
