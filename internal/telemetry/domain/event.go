package domain

import "time"

// TimerEvent is the engine's notification record: timer transitions, forced
// pauses, and entry commits. Serialized as JSON onto the event topic and
// mirrored as OTel log records.
type TimerEvent struct {
	OwnerID   string    `json:"ownerId"`
	ProjectID string    `json:"projectId,omitempty"`
	EventType string    `json:"eventType"`
	Source    string    `json:"source"`
	Metadata  []byte    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event types emitted by the engine.
const (
	EventTimerStarted     = "timer_started"
	EventTimerPaused      = "timer_paused"
	EventTimerResumed     = "timer_resumed"
	EventTimerStopped     = "timer_stopped"
	EventTimerDiscarded   = "timer_discarded"
	EventTimerForcedPause = "timer_forced_pause"
	EventEntryCommitted   = "entry_committed"
)
