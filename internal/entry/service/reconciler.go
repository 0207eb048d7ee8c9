// Package service implements the time-entry reconciler: it turns a finished
// timer or a manual input into a validated, committed, non-overlapping record.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"timetrack/internal/audit"
	auditdomain "timetrack/internal/audit/domain"
	"timetrack/internal/clock"
	"timetrack/internal/entry"
	"timetrack/internal/entry/domain"
	"timetrack/internal/telemetry"
	eventdomain "timetrack/internal/telemetry/domain"
)

// ErrEntryNotFound means no committed entry exists for the given id.
var ErrEntryNotFound = errors.New("time entry not found")

// Repo is the minimal entry repository needed by the reconciler.
type Repo interface {
	Insert(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	ListByOwner(ctx context.Context, ownerID string, since *time.Time) ([]*domain.TimeEntry, error)
	UpdateOverlay(ctx context.Context, id string, patch domain.OverlayPatch) error
}

// RoleLookup resolves a user's current role.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// RateResolver resolves the hourly rate for a (project, role) pair.
type RateResolver interface {
	Resolve(ctx context.Context, projectID, roleID string) (float64, error)
}

// CommitInput describes a candidate time entry from either the timer stop
// path or a manual form.
type CommitInput struct {
	OwnerID     string
	ProjectID   string
	Description string
	Start       time.Time
	End         time.Time
	Billable    bool
	// Source tags audit and events: "timer" or "manual".
	Source string
}

// Reconciler validates and commits time entries. Commit is all-or-nothing:
// either the full record is written or nothing is.
type Reconciler struct {
	repo      Repo
	validator *entry.OverlapValidator
	roles     RoleLookup
	rates     RateResolver
	clock     clock.Clock
	audit     audit.AuditLogger
	emitter   telemetry.EventEmitter

	tracer    trace.Tracer
	commits   metric.Int64Counter
	conflicts metric.Int64Counter
}

// NewReconciler returns a Reconciler with the given collaborators. audit and
// emitter may be nil.
func NewReconciler(
	repo Repo,
	validator *entry.OverlapValidator,
	roles RoleLookup,
	rates RateResolver,
	clk clock.Clock,
	auditLogger audit.AuditLogger,
	emitter telemetry.EventEmitter,
) *Reconciler {
	meter := otel.Meter("timetrack/entry")
	commits, _ := meter.Int64Counter("entry.commits",
		metric.WithDescription("Committed time entries"))
	conflicts, _ := meter.Int64Counter("entry.overlap_conflicts",
		metric.WithDescription("Commits rejected because the interval overlaps a committed entry"))
	return &Reconciler{
		repo:      repo,
		validator: validator,
		roles:     roles,
		rates:     rates,
		clock:     clk,
		audit:     auditLogger,
		emitter:   emitter,
		tracer:    otel.Tracer("timetrack/entry"),
		commits:   commits,
		conflicts: conflicts,
	}
}

// Commit validates the input, resolves the rate once, checks overlap, and
// persists the entry. Returns *domain.ValidationError for malformed input,
// *domain.OverlapError on interval collision, and wrapped storage errors
// as-is. A failed commit writes nothing.
func (r *Reconciler) Commit(ctx context.Context, in CommitInput) (*domain.TimeEntry, error) {
	ctx, span := r.tracer.Start(ctx, "entry.Commit")
	defer span.End()

	in.Description = strings.TrimSpace(in.Description)
	if in.OwnerID == "" {
		return nil, &domain.ValidationError{Field: "owner", Reason: "must not be empty"}
	}
	if in.ProjectID == "" {
		return nil, &domain.ValidationError{Field: "project", Reason: "must not be empty"}
	}
	if in.Description == "" {
		return nil, &domain.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	start, end := in.Start.UTC(), in.End.UTC()
	if !end.After(start) {
		return nil, &domain.ValidationError{Field: "interval", Reason: "end must be after start"}
	}
	span.SetAttributes(attribute.String("owner_id", in.OwnerID), attribute.String("source", in.Source))

	// Resolve role then rate exactly once per reconciliation. A zero rate is
	// a valid outcome meaning unbilled, never a fault.
	roleID, err := r.roles.RoleOf(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	rate, err := r.rates.Resolve(ctx, in.ProjectID, roleID)
	if err != nil {
		return nil, err
	}

	if conflict, err := r.validator.Check(ctx, in.OwnerID, start, end); err != nil {
		return nil, err
	} else if conflict != nil {
		r.conflicts.Add(ctx, 1)
		return nil, &domain.OverlapError{
			OwnerID:     in.OwnerID,
			Candidate:   domain.Interval{Start: start, End: end},
			Conflicting: conflict.Interval,
			EntryID:     conflict.EntryID,
		}
	}

	e := &domain.TimeEntry{
		ID:          uuid.New().String(),
		OwnerID:     in.OwnerID,
		ProjectID:   in.ProjectID,
		Description: in.Description,
		Start:       start,
		End:         end,
		Minutes:     domain.MinutesCeil(start, end),
		Billable:    in.Billable,
		CreatedAt:   r.clock.Now(),
	}
	if err := r.repo.Insert(ctx, e); err != nil {
		// A concurrent commit can win the race between Check and Insert; the
		// repository's atomic re-check surfaces it as the same overlap error.
		var overlapErr *domain.OverlapError
		if errors.As(err, &overlapErr) {
			r.conflicts.Add(ctx, 1)
			return nil, overlapErr
		}
		return nil, err
	}
	r.commits.Add(ctx, 1, metric.WithAttributes(attribute.String("source", in.Source)))

	meta, _ := json.Marshal(map[string]any{
		"entry_id": e.ID, "minutes": e.Minutes, "rate": rate, "source": in.Source,
	})
	if r.audit != nil {
		r.audit.LogEvent(ctx, e.OwnerID, auditdomain.ActionEntryCommit, "time_entry", string(meta))
	}
	telemetry.EmitAsync(r.emitter, &eventdomain.TimerEvent{
		OwnerID:   e.OwnerID,
		ProjectID: e.ProjectID,
		EventType: eventdomain.EventEntryCommitted,
		Source:    in.Source,
		Metadata:  meta,
		CreatedAt: r.clock.Now(),
	})
	return e, nil
}

// ListByOwner returns the owner's committed entries, newest start first.
func (r *Reconciler) ListByOwner(ctx context.Context, ownerID string, since *time.Time) ([]*domain.TimeEntry, error) {
	if ownerID == "" {
		return nil, &domain.ValidationError{Field: "owner", Reason: "must not be empty"}
	}
	return r.repo.ListByOwner(ctx, ownerID, since)
}

// UpdateOverlay applies the administrative overlay to a committed entry. The
// interval and ownership of the entry are not reachable from this path.
func (r *Reconciler) UpdateOverlay(ctx context.Context, id string, patch domain.OverlayPatch) (*domain.TimeEntry, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	existing, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("time entry %s: %w", id, ErrEntryNotFound)
	}
	if patch.Empty() {
		return existing, nil
	}
	if err := r.repo.UpdateOverlay(ctx, id, patch); err != nil {
		return nil, err
	}
	updated, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.audit != nil {
		meta, _ := json.Marshal(patch)
		r.audit.LogEvent(ctx, existing.OwnerID, auditdomain.ActionOverlayUpdate, "time_entry", string(meta))
	}
	return updated, nil
}
