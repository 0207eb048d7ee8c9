package service

import "errors"

// Transition errors for inputs that do not apply to the timer's current
// state. Both are caller-correctable, not system failures.
var (
	ErrTimerNotRunning = errors.New("timer is not running")
	ErrTimerNotPaused  = errors.New("timer is not paused")
	// ErrNothingToCommit means a stop found no measured time: the timer was
	// force-paused before any heartbeat, so its accumulator is zero. The
	// caller resumes to keep working or discards the timer.
	ErrNothingToCommit = errors.New("timer has no measured time to commit; resume or discard it")
)
