// Package telemetry carries the engine's timer-event notifications to
// external sinks (Kafka, OTel logs). Emission is always best-effort: a lost
// event never fails the operation that produced it.
package telemetry

import (
	"context"

	"timetrack/internal/telemetry/domain"
)

// EventEmitter emits timer events. Callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.TimerEvent) error
}
