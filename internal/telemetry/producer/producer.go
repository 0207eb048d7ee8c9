// Package producer defines the interface for publishing timer events to a
// broker (Kafka in production).
package producer

import (
	"context"

	"timetrack/internal/telemetry/domain"
)

// Producer publishes timer events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single event. Implementations may block briefly; call from
	// a goroutine if needed. Returns an error only on write failure.
	Emit(ctx context.Context, event *domain.TimerEvent) error
	// Close releases resources (e.g. the Kafka writer). Safe to call twice.
	Close() error
}
