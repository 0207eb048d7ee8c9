// Package clock provides the time source for the engine. All interval
// arithmetic and persistence run on UTC instants from Clock.Now; the fixed
// business offset is applied only when formatting for display.
package clock

import "time"

// Clock supplies the current instant in UTC.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system clock.
type Real struct{}

// Now returns the current time in UTC.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Mock is a manually advanced Clock for deterministic tests.
type Mock struct {
	current time.Time
}

// NewMock returns a Mock frozen at t (normalized to UTC).
func NewMock(t time.Time) *Mock {
	return &Mock{current: t.UTC()}
}

// Now returns the mock's current instant.
func (m *Mock) Now() time.Time {
	return m.current
}

// Advance moves the mock clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}

// Set pins the mock clock to t.
func (m *Mock) Set(t time.Time) {
	m.current = t.UTC()
}
