package report

import (
	"time"

	"github.com/tracklog/tracklog/pkg/activity"
)

// Overlap returns the portion of the activity's recorded time falling inside
// [from, to). A running activity is treated as if it stopped at now; this is
// the only place that branches on the missing stop time. The result is never
// negative and never exceeds to.Sub(from).
func Overlap(a activity.Activity, from time.Time, to time.Time, now time.Time) time.Duration {
	start := a.StartedAt
	if start.Before(from) {
		start = from
	}

	end := now
	if a.StoppedAt != nil {
		end = *a.StoppedAt
	}
	if end.After(to) {
		end = to
	}

	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// inWindow reports whether the activity's span [started, stopped-or-now)
// intersects [from, to). Zero-length activities count when they sit inside
// the window; spans that merely touch a boundary do not.
func inWindow(a activity.Activity, from time.Time, to time.Time, now time.Time) bool {
	start := a.StartedAt
	end := now
	if a.StoppedAt != nil {
		end = *a.StoppedAt
	}

	if end.Equal(start) {
		return !start.Before(from) && start.Before(to)
	}
	return start.Before(to) && end.After(from)
}
