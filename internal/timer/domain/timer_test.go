package domain

import (
	"testing"
	"time"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func runningTimer() *ActiveTimer {
	return &ActiveTimer{
		OwnerID:       "user-1",
		ProjectID:     "proj-1",
		StartedAt:     base,
		Running:       true,
		SegmentStart:  base,
		LastHeartbeat: base,
		Version:       1,
	}
}

func TestActiveTimer_ElapsedAcrossPauseResume(t *testing.T) {
	tm := runningTimer()

	if got := tm.Elapsed(base.Add(10 * time.Minute)); got != 10*time.Minute {
		t.Fatalf("running elapsed: want 10m, got %s", got)
	}

	tm.Pause(base.Add(10 * time.Minute))
	if tm.Running {
		t.Fatal("want paused")
	}
	// Frozen while paused.
	if got := tm.Elapsed(base.Add(2 * time.Hour)); got != 10*time.Minute {
		t.Fatalf("paused elapsed: want 10m, got %s", got)
	}

	tm.Resume(base.Add(30 * time.Minute))
	if got := tm.Elapsed(base.Add(45 * time.Minute)); got != 25*time.Minute {
		t.Fatalf("resumed elapsed: want 25m, got %s", got)
	}
}

func TestActiveTimer_PauseAndResumeAreIdempotent(t *testing.T) {
	tm := runningTimer()
	tm.Pause(base.Add(5 * time.Minute))
	tm.Pause(base.Add(9 * time.Minute))
	if tm.Accumulated != 5*time.Minute {
		t.Fatalf("double pause: want 5m, got %s", tm.Accumulated)
	}

	tm.Resume(base.Add(10 * time.Minute))
	tm.Resume(base.Add(20 * time.Minute))
	if !tm.SegmentStart.Equal(base.Add(10 * time.Minute)) {
		t.Fatalf("double resume moved segment start to %s", tm.SegmentStart)
	}
}

func TestActiveTimer_ApplyStaleness(t *testing.T) {
	tm := runningTimer()
	tm.LastHeartbeat = base.Add(2 * time.Minute)

	// Within threshold: nothing happens.
	if tm.ApplyStaleness(base.Add(6*time.Minute), 5*time.Minute) {
		t.Fatal("timer within threshold must not be force-paused")
	}
	if !tm.Running {
		t.Fatal("timer should still run")
	}

	// Past threshold: paused with time frozen at the heartbeat, not at now.
	if !tm.ApplyStaleness(base.Add(8*time.Minute), 5*time.Minute) {
		t.Fatal("want forced pause past threshold")
	}
	if tm.Running {
		t.Fatal("want paused")
	}
	if tm.Accumulated != 2*time.Minute {
		t.Errorf("accumulated: want 2m (frozen at heartbeat), got %s", tm.Accumulated)
	}
	if !tm.PausedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("paused at: want heartbeat instant, got %s", tm.PausedAt)
	}

	// Already paused: rule never fires again.
	if tm.ApplyStaleness(base.Add(time.Hour), 5*time.Minute) {
		t.Error("paused timer must not be force-paused again")
	}
}

func TestActiveTimer_CommitBounds(t *testing.T) {
	tm := runningTimer()
	now := base.Add(90 * time.Second)
	start, end := tm.CommitBounds(now)
	if !start.Equal(base) || !end.Equal(now) {
		t.Errorf("running bounds: got [%s, %s]", start, end)
	}

	// Paused: the bounds end at the pause, regardless of when stop happens.
	tm = runningTimer()
	tm.Pause(base.Add(30 * time.Minute))
	start, end = tm.CommitBounds(base.Add(3 * time.Hour))
	if !start.Equal(base) || !end.Equal(base.Add(30*time.Minute)) {
		t.Errorf("paused bounds: got [%s, %s]", start, end)
	}

	// With a pause gap in the middle the interval is contiguous and ends at
	// now, sized by measured time only.
	tm = runningTimer()
	tm.Pause(base.Add(10 * time.Minute))
	tm.Resume(base.Add(20 * time.Minute))
	now = base.Add(25 * time.Minute)
	start, end = tm.CommitBounds(now)
	if !end.Equal(now) {
		t.Errorf("end: want %s, got %s", now, end)
	}
	if got := end.Sub(start); got != 15*time.Minute {
		t.Errorf("span: want 15m, got %s", got)
	}
}
