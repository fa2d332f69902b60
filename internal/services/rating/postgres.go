package rating

import (
	"context"
	"fmt"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

// PostgresRepository implements Repository over the shared pool.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a rating repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, menuitem_id, rating
		FROM ratings
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MenuItemID, &rt.Rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// Create inserts a rating. The unique constraint on (user, menuitem)
// turns a repeat rating into a conflict.
func (r *PostgresRepository) Create(ctx context.Context, rating *models.Rating) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ratings (user_id, menuitem_id, rating)
		VALUES ($1, $2, $3)
		RETURNING id`,
		rating.UserID, rating.MenuItemID, rating.Rating,
	).Scan(&rating.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("You have already rated this menu item.", err)
		}
		if database.IsForeignKeyViolation(err) {
			return apperror.NotFound("Menu item not found.")
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}
