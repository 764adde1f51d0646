package router

import (
	"fmt"
	"time"
)

// throttle is a global fixed-window write limiter. The first admitted write
// after an idle or expired window opens a new one; drops are counted per
// handle and in total across windows.
type throttle struct {
	windowStart     time.Time
	droppedByHandle map[string]int
	window          time.Duration
	capacity        int
	writesInWindow  int
	droppedInWindow int
	droppedTotal    int
}

func newThrottle(maxWritesPerSecond, windowSeconds int) *throttle {
	return &throttle{
		capacity:        maxWritesPerSecond,
		window:          time.Duration(windowSeconds) * time.Second,
		droppedByHandle: make(map[string]int),
	}
}

// admit reports whether a write for handle is admitted now. The returned
// summary is non-empty exactly when an expired window closed with drops.
func (t *throttle) admit(handle string, now time.Time) (bool, string) {
	summary := ""

	if t.windowStart.IsZero() {
		t.windowStart = now
	}

	if now.Sub(t.windowStart) >= t.window {
		if t.droppedInWindow > 0 {
			summary = fmt.Sprintf("Throttling activated: dropped %d write(s) in last %ds window.",
				t.droppedInWindow, int(t.window/time.Second))
		}

		t.windowStart = now
		t.writesInWindow = 0
		t.droppedInWindow = 0
	}

	if t.writesInWindow >= t.capacity {
		t.droppedInWindow++
		t.droppedTotal++
		t.droppedByHandle[handle]++

		return false, summary
	}

	t.writesInWindow++

	return true, summary
}

// ThrottleStats is a point-in-time copy of the throttle drop counters.
type ThrottleStats struct {
	DroppedByHandle map[string]int
	DroppedTotal    int
}
