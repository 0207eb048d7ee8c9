package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timetrack/internal/rate/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a rate repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the rate row for (projectID, roleID), or nil when none exists.
func (r *PostgresRepository) Get(ctx context.Context, projectID, roleID string) (*domain.Rate, error) {
	rate := &domain.Rate{ProjectID: projectID, RoleID: roleID}
	err := r.db.QueryRowContext(ctx,
		`SELECT rate FROM project_rates WHERE project_id = $1 AND role_id = $2`,
		projectID, roleID).Scan(&rate.HourlyRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate: %w", err)
	}
	return rate, nil
}

// ListByProject returns all configured rates for a project.
func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Rate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, role_id, rate FROM project_rates WHERE project_id = $1 ORDER BY role_id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var rates []*domain.Rate
	for rows.Next() {
		rate := &domain.Rate{}
		if err := rows.Scan(&rate.ProjectID, &rate.RoleID, &rate.HourlyRate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
