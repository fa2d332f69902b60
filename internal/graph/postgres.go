package graph

import (
	"context"
	"fmt"

	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

// PostgresStore implements Store over the shared pool.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a read store for the schema.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Orders(ctx context.Context) ([]OrderRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT o.id, o.user_id, o.delivery_crew_id, o.status, o.total, o.date, u.username
		FROM orders o
		LEFT JOIN users u ON u.id = o.delivery_crew_id
		ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total, &o.Date, &o.DeliveryCrewUsername); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) OrderItems(ctx context.Context) ([]models.OrderItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, order_id, menuitem_id, quantity FROM order_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.title, m.price, m.inventory, m.featured, c.id, c.slug, c.title
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id
		ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		var c models.Category
		if err := rows.Scan(&it.ID, &it.Title, &it.Price, &it.Inventory, &it.Featured, &c.ID, &c.Slug, &c.Title); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		it.Category = &c
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, slug, title FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) CartItems(ctx context.Context) ([]models.CartLine, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.menuitem_id, m.title, m.price, ci.quantity
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.menuitem_id
		ORDER BY ci.id`)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.MenuItemID, &line.Title, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
