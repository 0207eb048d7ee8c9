// Package rate resolves the hourly rate for a (project, role) pair.
package rate

import (
	"context"
	"fmt"

	"timetrack/internal/rate/domain"
)

// Lookup is the minimal repository surface the resolver needs.
type Lookup interface {
	Get(ctx context.Context, projectID, roleID string) (*domain.Rate, error)
}

// Resolver answers rate lookups with a defined zero default: an unconfigured
// pair resolves to 0, which downstream billing treats as unbilled, not as a
// fault.
type Resolver struct {
	lookup Lookup
}

// NewResolver returns a Resolver over the given lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the hourly rate for (projectID, roleID); 0 when no rate is
// configured. Errors are storage failures only.
func (r *Resolver) Resolve(ctx context.Context, projectID, roleID string) (float64, error) {
	rate, err := r.lookup.Get(ctx, projectID, roleID)
	if err != nil {
		return 0, fmt.Errorf("resolve rate: %w", err)
	}
	if rate == nil {
		return 0, nil
	}
	return rate.HourlyRate, nil
}
