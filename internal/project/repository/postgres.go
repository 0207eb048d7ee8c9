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

// NewPostgresRepository returns a project repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CurrencyOf returns the project's currency code, or "" for an unknown
// project so billing can bucket it as unspecified instead of failing.
func (r *PostgresRepository) CurrencyOf(ctx context.Context, projectID string) (string, error) {
	var currency sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT currency FROM projects WHERE id = $1`, projectID).Scan(&currency)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("currency of %s: %w", projectID, err)
	}
	return currency.String, nil
}
