package viewer

import (
	"time"

	"github.com/67O7XoO4/go-boids/pkg/ui"
)

// CountDelay is how long the boids slider has to stay still before the flock is reinitialised.
const CountDelay = 500 * time.Millisecond

// countDebouncer keeps the last requested agent count until it has been stable for delay.
type countDebouncer struct {
	delay   time.Duration
	pending int
	since   time.Time
	armed   bool
}

// Set records a new requested count and restarts the delay.
func (d *countDebouncer) Set(n int, now time.Time) {
	d.pending = n
	d.since = now
	d.armed = true
}

// Ready returns the pending count once the delay has elapsed, then disarms.
func (d *countDebouncer) Ready(now time.Time) (int, bool) {
	if !d.armed || now.Sub(d.since) < d.delay {
		return 0, false
	}
	d.armed = false
	return d.pending, true
}

// Cancel drops any pending count, used when the flock was reinitialised explicitly.
func (d *countDebouncer) Cancel() { d.armed = false }

// pointerOut reports whether the cursor should be ignored by the flock:
// off the window, window unfocused, or over the control panel.
func pointerOut(mx, my float64, width, height int, focused bool, panel *ui.UIPanel) bool {
	if !focused {
		return true
	}
	if mx < 0 || my < 0 || mx >= float64(width) || my >= float64(height) {
		return true
	}
	return panel != nil && panel.Contains(mx, my)
}
