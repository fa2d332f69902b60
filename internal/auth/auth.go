// Package auth resolves opaque API tokens to users and their roles.
// Token issuance lives elsewhere; tokens are provisioned with the user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/database"
	"restaurant-api/internal/models"
)

type contextKey struct{}

// UserFromContext returns the authenticated caller, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*models.User)
	return u, ok
}

// WithUser attaches a caller to the context. Exposed for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// Store looks up users and group membership.
type Store interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	GroupMembers(ctx context.Context, group models.Role) ([]models.User, error)
	AddToGroup(ctx context.Context, userID int64, group models.Role) error
}

// PostgresStore implements Store over the shared pool.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a user store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UserByToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, is_staff FROM users WHERE token = $1`, token).
		Scan(&u.ID, &u.Username, &u.Email, &u.IsStaff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Unauthorized("Invalid token.")
		}
		return nil, fmt.Errorf("user by token: %w", err)
	}
	if err := s.loadRoles(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, is_staff FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.IsStaff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, fmt.Errorf("user by username: %w", err)
	}
	if err := s.loadRoles(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) loadRoles(ctx context.Context, u *models.User) error {
	rows, err := s.db.Query(ctx, `
		SELECT g.name FROM groups g
		JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1`, u.ID)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan role: %w", err)
		}
		u.Roles = append(u.Roles, models.Role(name))
	}
	return rows.Err()
}

func (s *PostgresStore) GroupMembers(ctx context.Context, group models.Role) ([]models.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username FROM users u
		JOIN user_groups ug ON ug.user_id = u.id
		JOIN groups g ON g.id = ug.group_id
		WHERE g.name = $1
		ORDER BY u.id`, string(group))
	if err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) AddToGroup(ctx context.Context, userID int64, group models.Role) error {
	err := s.db.Exec(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		SELECT $1, id FROM groups WHERE name = $2
		ON CONFLICT (user_id, group_id) DO NOTHING`, userID, string(group))
	if err != nil {
		return fmt.Errorf("add to group: %w", err)
	}
	return nil
}

// Middleware resolves the Authorization header to a user when one is
// presented. Requests without credentials pass through anonymously, but a
// presented token that does not resolve is rejected outright rather than
// downgraded to anonymous.
func Middleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromHeader(r)
			if token != "" {
				user, err := store.UserByToken(r.Context(), token)
				if err != nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(apperror.StatusCode(err))
					fmt.Fprintf(w, `{"detail": %q}`, apperror.Detail(err))
					return
				}
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"detail": "Authentication credentials were not provided."}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(header, scheme))
		}
	}
	return ""
}
