package repository

import (
	"context"
	"time"

	"timetrack/internal/entry/domain"
)

// Repository defines persistence for committed time entries.
type Repository interface {
	// Insert atomically re-checks the owner's committed intervals and writes
	// the entry. Returns *domain.OverlapError when the interval collides with
	// an existing entry; the row is not written in that case.
	Insert(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	// ListByOwner returns the owner's entries ordered by start descending.
	// since, when non-nil, bounds the scan to entries starting at or after it.
	ListByOwner(ctx context.Context, ownerID string, since *time.Time) ([]*domain.TimeEntry, error)
	// FindOverlapping returns the first committed entry of the owner whose
	// interval intersects [start, end), or nil if none.
	FindOverlapping(ctx context.Context, ownerID string, start, end time.Time) (*domain.TimeEntry, error)
	// UpdateOverlay mutates only the administrative overlay fields.
	UpdateOverlay(ctx context.Context, id string, patch domain.OverlayPatch) error
}
