// Package entry provides the overlap validator shared by the reconciler and
// the timer stop path.
package entry

import (
	"context"
	"fmt"
	"time"

	"timetrack/internal/entry/domain"
)

// OverlapLookup is the read-only repository surface the validator needs.
type OverlapLookup interface {
	FindOverlapping(ctx context.Context, ownerID string, start, end time.Time) (*domain.TimeEntry, error)
}

// Conflict identifies the committed entry a candidate interval collides with.
type Conflict struct {
	EntryID  string
	Interval domain.Interval
}

// OverlapValidator decides whether a candidate [start, end) interval for a
// user conflicts with any of that user's committed intervals. The scan always
// covers the owner's full history; only same-owner entries are compared, so
// different people may work the same hours.
type OverlapValidator struct {
	entries OverlapLookup
}

// NewOverlapValidator returns a validator over the given entry lookup.
func NewOverlapValidator(entries OverlapLookup) *OverlapValidator {
	return &OverlapValidator{entries: entries}
}

// Check returns the conflicting entry for [start, end), or nil when the
// interval is free. Read-only; the repository insert re-checks atomically.
func (v *OverlapValidator) Check(ctx context.Context, ownerID string, start, end time.Time) (*Conflict, error) {
	existing, err := v.entries.FindOverlapping(ctx, ownerID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	return &Conflict{EntryID: existing.ID, Interval: existing.Interval()}, nil
}
