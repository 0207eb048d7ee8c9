// Package service owns the active-timer lifecycle: start, pause, resume,
// stop, discard, and the heartbeat-driven forced pause. Transitions for one
// owner are serialized by a per-owner lock and guarded by optimistic
// versioning in the repository, so two concurrent requests can never tear the
// accumulated time or fork the timer.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"timetrack/internal/audit"
	auditdomain "timetrack/internal/audit/domain"
	"timetrack/internal/clock"
	entrydomain "timetrack/internal/entry/domain"
	entryservice "timetrack/internal/entry/service"
	"timetrack/internal/telemetry"
	eventdomain "timetrack/internal/telemetry/domain"
	"timetrack/internal/timer/domain"
)

// DefaultStaleness is the maximum heartbeat silence before a running timer is
// presumed disconnected and force-paused.
const DefaultStaleness = 5 * time.Minute

// Repo is the minimal timer repository needed by the service.
type Repo interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.ActiveTimer, error)
	Insert(ctx context.Context, t *domain.ActiveTimer) error
	Update(ctx context.Context, t *domain.ActiveTimer, expectedVersion int64) error
	Delete(ctx context.Context, ownerID string, expectedVersion int64) error
}

// Committer converts a finished timer into a committed time entry.
type Committer interface {
	Commit(ctx context.Context, in entryservice.CommitInput) (*entrydomain.TimeEntry, error)
}

// Observation is the result of reading the owner's timer: the current state
// plus whether the heartbeat-staleness rule just forced a pause.
type Observation struct {
	Timer       *domain.ActiveTimer
	Elapsed     time.Duration
	ForcedPause bool
}

// Service is the per-user timer state machine.
type Service struct {
	repo      Repo
	committer Committer
	clock     clock.Clock
	audit     audit.AuditLogger
	emitter   telemetry.EventEmitter
	staleness time.Duration
	locks     ownerLocks

	tracer       trace.Tracer
	starts       metric.Int64Counter
	stops        metric.Int64Counter
	forcedPauses metric.Int64Counter
}

// New returns a timer Service. staleness <= 0 selects DefaultStaleness.
// audit and emitter may be nil.
func New(repo Repo, committer Committer, clk clock.Clock, auditLogger audit.AuditLogger, emitter telemetry.EventEmitter, staleness time.Duration) *Service {
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	meter := otel.Meter("timetrack/timer")
	starts, _ := meter.Int64Counter("timer.starts",
		metric.WithDescription("Timers started"))
	stops, _ := meter.Int64Counter("timer.stops",
		metric.WithDescription("Timers stopped and committed"))
	forcedPauses, _ := meter.Int64Counter("timer.forced_pauses",
		metric.WithDescription("Timers force-paused by heartbeat staleness"))
	return &Service{
		repo:         repo,
		committer:    committer,
		clock:        clk,
		audit:        auditLogger,
		emitter:      emitter,
		staleness:    staleness,
		tracer:       otel.Tracer("timetrack/timer"),
		starts:       starts,
		stops:        stops,
		forcedPauses: forcedPauses,
	}
}

// Start creates the owner's ActiveTimer. It never replaces an existing one:
// the caller must discard or navigate to it (domain.ErrTimerExists).
func (s *Service) Start(ctx context.Context, ownerID, projectID, description string, billable bool) (*domain.ActiveTimer, error) {
	ctx, span := s.tracer.Start(ctx, "timer.Start")
	defer span.End()

	description = strings.TrimSpace(description)
	if ownerID == "" {
		return nil, &entrydomain.ValidationError{Field: "owner", Reason: "must not be empty"}
	}
	if projectID == "" {
		return nil, &entrydomain.ValidationError{Field: "project", Reason: "must not be empty"}
	}
	// Rejecting an empty description here keeps every timer stoppable: the
	// reconciler would refuse it at stop time and there is no edit path.
	if description == "" {
		return nil, &entrydomain.ValidationError{Field: "description", Reason: "must not be empty"}
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	existing, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrTimerExists
	}

	now := s.clock.Now()
	t := &domain.ActiveTimer{
		OwnerID:       ownerID,
		ProjectID:     projectID,
		Description:   description,
		Billable:      billable,
		StartedAt:     now,
		Running:       true,
		SegmentStart:  now,
		LastHeartbeat: now,
		Version:       1,
		CreatedAt:     now,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	s.starts.Add(ctx, 1)
	s.record(ctx, t, auditdomain.ActionTimerStart, eventdomain.EventTimerStarted, nil)
	return t, nil
}

// Get observes the owner's timer: applies the staleness rule, records the
// heartbeat, and reports a forced pause so the caller can surface it.
func (s *Service) Get(ctx context.Context, ownerID string) (*Observation, error) {
	ctx, span := s.tracer.Start(ctx, "timer.Get")
	defer span.End()

	unlock := s.locks.lock(ownerID)
	defer unlock()

	t, err := s.fetch(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	forced := s.applyStaleness(ctx, t, now)
	t.LastHeartbeat = now
	if err := s.repo.Update(ctx, t, t.Version); err != nil {
		return nil, err
	}
	return &Observation{Timer: t, Elapsed: t.Elapsed(now), ForcedPause: forced}, nil
}

// Pause freezes the running timer. version must match the caller's last
// observation (domain.ErrStaleTimer otherwise). If the staleness rule
// already paused the timer, Pause succeeds and returns the corrected state.
func (s *Service) Pause(ctx context.Context, ownerID string, version int64) (*domain.ActiveTimer, error) {
	ctx, span := s.tracer.Start(ctx, "timer.Pause")
	defer span.End()

	unlock := s.locks.lock(ownerID)
	defer unlock()

	t, err := s.fetchVersioned(ctx, ownerID, version)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if forced := s.applyStaleness(ctx, t, now); forced {
		if err := s.repo.Update(ctx, t, version); err != nil {
			return nil, err
		}
		return t, nil
	}
	if !t.Running {
		return nil, ErrTimerNotRunning
	}
	t.Pause(now)
	if err := s.repo.Update(ctx, t, version); err != nil {
		return nil, err
	}
	s.record(ctx, t, auditdomain.ActionTimerPause, eventdomain.EventTimerPaused, map[string]any{
		"elapsed_sec": int64(t.Accumulated.Seconds()),
	})
	return t, nil
}

// Resume reopens a running segment on a paused timer.
func (s *Service) Resume(ctx context.Context, ownerID string, version int64) (*domain.ActiveTimer, error) {
	ctx, span := s.tracer.Start(ctx, "timer.Resume")
	defer span.End()

	unlock := s.locks.lock(ownerID)
	defer unlock()

	t, err := s.fetchVersioned(ctx, ownerID, version)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	// A stale running timer is first corrected to paused, then resumed: this
	// is the reconnecting-client path and must not recount the silent gap.
	s.applyStaleness(ctx, t, now)
	if t.Running {
		return nil, ErrTimerNotPaused
	}
	t.Resume(now)
	if err := s.repo.Update(ctx, t, version); err != nil {
		return nil, err
	}
	s.record(ctx, t, auditdomain.ActionTimerResume, eventdomain.EventTimerResumed, nil)
	return t, nil
}

// Stop converts the timer into a committed time entry and deletes it. On
// commit failure (overlap, validation) the ActiveTimer is left untouched so
// no elapsed time is lost; the caller may adjust and retry.
func (s *Service) Stop(ctx context.Context, ownerID string, version int64) (*entrydomain.TimeEntry, error) {
	ctx, span := s.tracer.Start(ctx, "timer.Stop")
	defer span.End()

	unlock := s.locks.lock(ownerID)
	defer unlock()

	t, err := s.fetchVersioned(ctx, ownerID, version)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if forced := s.applyStaleness(ctx, t, now); forced {
		// Persist the corrected pause first: if the commit below fails, the
		// timer must survive with the frozen, not the overcounted, value.
		if err := s.repo.Update(ctx, t, version); err != nil {
			return nil, err
		}
		version = t.Version
	}

	start, end := t.CommitBounds(now)
	// A force-paused timer that never heartbeat has a zero-length span; the
	// reconciler would reject it on every retry, so name the condition.
	if !end.After(start) {
		return nil, ErrNothingToCommit
	}
	committed, err := s.committer.Commit(ctx, entryservice.CommitInput{
		OwnerID:     t.OwnerID,
		ProjectID:   t.ProjectID,
		Description: t.Description,
		Start:       start,
		End:         end,
		Billable:    t.Billable,
		Source:      "timer",
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, ownerID, version); err != nil {
		// The entry is committed; a retried stop will hit the overlap guard
		// rather than double-count. Surface the storage failure.
		return nil, err
	}
	s.stops.Add(ctx, 1)
	s.record(ctx, t, auditdomain.ActionTimerStop, eventdomain.EventTimerStopped, map[string]any{
		"entry_id": committed.ID, "minutes": committed.Minutes,
	})
	span.SetAttributes(attribute.Int("minutes", committed.Minutes))
	return committed, nil
}

// Discard drops the timer without producing a time entry. Irreversible; any
// confirmation flow belongs to the caller. Allowed from both states so a
// conflicting timer found at Start can be cleared in one call.
func (s *Service) Discard(ctx context.Context, ownerID string, version int64) error {
	ctx, span := s.tracer.Start(ctx, "timer.Discard")
	defer span.End()

	unlock := s.locks.lock(ownerID)
	defer unlock()

	t, err := s.fetchVersioned(ctx, ownerID, version)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, version); err != nil {
		return err
	}
	s.record(ctx, t, auditdomain.ActionTimerDiscard, eventdomain.EventTimerDiscarded, map[string]any{
		"elapsed_sec": int64(t.Elapsed(s.clock.Now()).Seconds()),
	})
	return nil
}

// fetch returns the owner's timer or domain.ErrNoActiveTimer.
func (s *Service) fetch(ctx context.Context, ownerID string) (*domain.ActiveTimer, error) {
	t, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNoActiveTimer
	}
	return t, nil
}

// fetchVersioned additionally rejects snapshots the caller no longer holds.
func (s *Service) fetchVersioned(ctx context.Context, ownerID string, version int64) (*domain.ActiveTimer, error) {
	t, err := s.fetch(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if t.Version != version {
		return nil, domain.ErrStaleTimer
	}
	return t, nil
}

// applyStaleness runs the heartbeat rule against the in-memory timer and
// emits the forced-pause notification when it fires. Persisting the change
// is the caller's responsibility.
func (s *Service) applyStaleness(ctx context.Context, t *domain.ActiveTimer, now time.Time) bool {
	if !t.ApplyStaleness(now, s.staleness) {
		return false
	}
	s.forcedPauses.Add(ctx, 1)
	s.record(ctx, t, auditdomain.ActionTimerForcedPause, eventdomain.EventTimerForcedPause, map[string]any{
		"frozen_at":   t.PausedAt.Format(time.RFC3339),
		"elapsed_sec": int64(t.Accumulated.Seconds()),
	})
	return true
}

// record writes the audit trail entry and fires the async event for one
// transition. Both are best-effort.
func (s *Service) record(ctx context.Context, t *domain.ActiveTimer, action, eventType string, meta map[string]any) {
	var metaJSON []byte
	if meta != nil {
		metaJSON, _ = json.Marshal(meta)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, t.OwnerID, action, "active_timer", string(metaJSON))
	}
	telemetry.EmitAsync(s.emitter, &eventdomain.TimerEvent{
		OwnerID:   t.OwnerID,
		ProjectID: t.ProjectID,
		EventType: eventType,
		Source:    "timer_service",
		Metadata:  metaJSON,
		CreatedAt: s.clock.Now(),
	})
}
