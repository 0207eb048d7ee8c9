package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a profile repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// RoleOf returns the user's role id, or "" when the user has no profile.
func (r *PostgresRepository) RoleOf(ctx context.Context, userID string) (string, error) {
	var roleID string
	err := r.db.QueryRowContext(ctx,
		`SELECT role_id FROM profiles WHERE id = $1`, userID).Scan(&roleID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("role of %s: %w", userID, err)
	}
	return roleID, nil
}
