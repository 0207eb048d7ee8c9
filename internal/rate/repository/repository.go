package repository

import (
	"context"

	"timetrack/internal/rate/domain"
)

// Repository defines the read-only rate lookup. Rates are administered
// outside the engine.
type Repository interface {
	// Get returns the rate for (projectID, roleID), or nil when unconfigured.
	Get(ctx context.Context, projectID, roleID string) (*domain.Rate, error)

	// ListByProject returns all configured rates for a project, ordered by role.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Rate, error)
}
