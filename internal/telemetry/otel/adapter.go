package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"timetrack/internal/telemetry"
	"timetrack/internal/telemetry/domain"
)

// NewEventEmitter returns an EventEmitter that sends timer events as OTel log
// records via the given LoggerProvider. If provider is nil, returns a no-op
// emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("timetrack.events")}
}

// NewEventEmitterWithLogger returns an EventEmitter writing records straight
// to the given logger. Mainly for tests that capture emitted records.
func NewEventEmitterWithLogger(logger otellog.Logger) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.TimerEvent) error { return nil }

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the timer event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.TimerEvent) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if len(event.Metadata) > 0 {
		rec.SetBody(otellog.BytesValue(event.Metadata))
	}
	if event.OwnerID != "" {
		rec.AddAttributes(otellog.String("owner_id", event.OwnerID))
	}
	if event.ProjectID != "" {
		rec.AddAttributes(otellog.String("project_id", event.ProjectID))
	}
	if event.EventType != "" {
		rec.AddAttributes(otellog.String("event_type", event.EventType))
	}
	if event.Source != "" {
		rec.AddAttributes(otellog.String("source", event.Source))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
