package repository

import (
	"context"

	"timetrack/internal/timer/domain"
)

// Repository defines persistence for active timers, keyed by owner.
type Repository interface {
	// GetByOwner returns the owner's timer, or nil if none exists.
	GetByOwner(ctx context.Context, ownerID string) (*domain.ActiveTimer, error)
	// Insert creates the owner's timer. Returns domain.ErrTimerExists when a
	// row is already present for the owner.
	Insert(ctx context.Context, t *domain.ActiveTimer) error
	// Update writes the timer iff the stored row still carries
	// expectedVersion, bumping Version by one. Returns domain.ErrStaleTimer
	// when the row changed underneath the caller, domain.ErrNoActiveTimer
	// when it is gone.
	Update(ctx context.Context, t *domain.ActiveTimer, expectedVersion int64) error
	// Delete removes the owner's timer iff it still carries expectedVersion.
	// Same error contract as Update.
	Delete(ctx context.Context, ownerID string, expectedVersion int64) error
}
