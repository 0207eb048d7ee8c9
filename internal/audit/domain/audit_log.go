package domain

import "time"

// AuditLog records one engine action for the administrative activity trail.
type AuditLog struct {
	ID        string
	OwnerID   string
	Action    string
	Resource  string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the engine.
const (
	ActionTimerStart       = "timer_start"
	ActionTimerPause       = "timer_pause"
	ActionTimerResume      = "timer_resume"
	ActionTimerStop        = "timer_stop"
	ActionTimerDiscard     = "timer_discard"
	ActionTimerForcedPause = "timer_forced_pause"
	ActionEntryCommit      = "entry_commit"
	ActionOverlayUpdate    = "overlay_update"
)
