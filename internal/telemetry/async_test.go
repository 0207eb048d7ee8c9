package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"timetrack/internal/telemetry/domain"
)

type mockEventEmitter struct {
	mu     sync.Mutex
	events []*domain.TimerEvent
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.TimerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventEmitter) getEvents() []*domain.TimerEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func TestEmitAsync_NilEmitterAndNilEvent(t *testing.T) {
	// Neither may panic or spawn anything observable.
	EmitAsync(nil, &domain.TimerEvent{OwnerID: "user-1"})

	emitter := &mockEventEmitter{}
	EmitAsync(emitter, nil)
	time.Sleep(10 * time.Millisecond)
	if got := emitter.getEvents(); len(got) != 0 {
		t.Errorf("nil event: want 0 emits, got %d", len(got))
	}
}

func TestEmitAsync_Delivers(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, &domain.TimerEvent{
		OwnerID:   "user-1",
		ProjectID: "proj-1",
		EventType: domain.EventTimerStarted,
		Source:    "timer_service",
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(emitter.getEvents()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTimerStarted {
		t.Errorf("event type: %s", events[0].EventType)
	}
}

func TestEmitAsync_Concurrent(t *testing.T) {
	emitter := &mockEventEmitter{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(emitter, &domain.TimerEvent{OwnerID: "user-1", EventType: domain.EventTimerPaused})
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(emitter.getEvents()) == 10 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("want 10 events, got %d", len(emitter.getEvents()))
}
