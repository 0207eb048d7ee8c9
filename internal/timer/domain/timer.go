// Package domain holds the active-timer model and its transition rules.
// An ActiveTimer is the only mutable shared resource in the engine: at most
// one exists per owner, and every write bumps Version so stale snapshots are
// rejected instead of silently overwritten.
package domain

import (
	"errors"
	"time"
)

// Sentinel errors shared by the timer repository, service, and handler.
var (
	// ErrTimerExists means the owner already has an ActiveTimer. The caller
	// must discard it or navigate to it; it is never silently replaced.
	ErrTimerExists = errors.New("an active timer already exists for this user")
	// ErrStaleTimer means the caller acted on an outdated timer snapshot.
	// Recoverable by refetching and retrying.
	ErrStaleTimer = errors.New("active timer was modified concurrently; refetch and retry")
	// ErrNoActiveTimer means the owner has no timer to act on.
	ErrNoActiveTimer = errors.New("no active timer for this user")
)

// State is the observable lifecycle state of an ActiveTimer. Idle is not a
// stored state: it is the absence of a row.
type State string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// ActiveTimer is one owner's in-progress, not-yet-committed work session.
//
// While running, measured time is Accumulated plus the open segment since
// SegmentStart. While paused, Accumulated is frozen and PausedAt marks the end
// of the last measured segment.
type ActiveTimer struct {
	OwnerID       string
	ProjectID     string
	Description   string
	Billable      bool
	StartedAt     time.Time
	Accumulated   time.Duration
	Running       bool
	SegmentStart  time.Time
	PausedAt      time.Time
	LastHeartbeat time.Time
	Version       int64
	CreatedAt     time.Time
}

// State returns the derived lifecycle state.
func (t *ActiveTimer) State() State {
	if t.Running {
		return StateRunning
	}
	return StatePaused
}

// Elapsed returns total measured time as of now: the frozen accumulator plus
// the open running segment, if any.
func (t *ActiveTimer) Elapsed(now time.Time) time.Duration {
	if !t.Running {
		return t.Accumulated
	}
	return t.Accumulated + now.Sub(t.SegmentStart)
}

// Pause freezes the accumulator at now and clears the running segment.
func (t *ActiveTimer) Pause(now time.Time) {
	if !t.Running {
		return
	}
	t.Accumulated += now.Sub(t.SegmentStart)
	t.Running = false
	t.SegmentStart = time.Time{}
	t.PausedAt = now
	t.LastHeartbeat = now
}

// Resume opens a new running segment at now.
func (t *ActiveTimer) Resume(now time.Time) {
	if t.Running {
		return
	}
	t.Running = true
	t.SegmentStart = now
	t.PausedAt = time.Time{}
	t.LastHeartbeat = now
}

// ApplyStaleness enforces the heartbeat rule: a running timer whose last
// heartbeat is older than threshold is force-paused with the accumulator
// frozen at the heartbeat instant, not at now. This bounds data loss from a
// crashed client to one staleness interval and never overcounts idle time.
// Returns true when a forced pause happened.
func (t *ActiveTimer) ApplyStaleness(now time.Time, threshold time.Duration) bool {
	if !t.Running || now.Sub(t.LastHeartbeat) <= threshold {
		return false
	}
	t.Accumulated += t.LastHeartbeat.Sub(t.SegmentStart)
	t.Running = false
	t.SegmentStart = time.Time{}
	t.PausedAt = t.LastHeartbeat
	return true
}

// CommitBounds returns the interval a stop at now would commit: measurement
// ends at now while running or at PausedAt while paused, and starts one total
// elapsed span earlier, which equals the running-segment start minus all
// previously accumulated time.
func (t *ActiveTimer) CommitBounds(now time.Time) (start, end time.Time) {
	if t.Running {
		end = now
	} else {
		end = t.PausedAt
	}
	return end.Add(-t.Elapsed(now)), end
}
