package report

import (
	"time"

	"github.com/tracklog/tracklog/pkg/project"
)

// NoProjectID keys durations of activities recorded without a project.
// Project ids are positive serials, so 0 never collides.
const NoProjectID = 0

// ActivityGroup sums the window overlap of all activities sharing a
// description and project. Groups appear in order of first occurrence.
type ActivityGroup struct {
	Description string
	Duration    time.Duration
	Project     *project.Project
}

// Report is the aggregation result for one user and window. It is built
// fresh per request or job run and never mutated afterwards.
type Report struct {
	Start time.Time
	End   time.Time

	// Projects lists all of the owner's projects, including ones without any
	// activity in the window, in directory order.
	Projects []project.Project

	// Labels are the window's bucket labels; every series in Sums aligns
	// positionally with them.
	Labels []string

	// Sums maps a project id (or NoProjectID) to per-bucket durations.
	Sums map[int][]time.Duration

	// Totals maps a project id to the sum of its bucket durations.
	Totals map[int]time.Duration

	ActivityGroups []ActivityGroup

	// CompletedActivities counts stopped activities whose span lies in the
	// window. The mailer job sends only when at least one exists: running
	// activities alone never trigger a mail, zero-length completed entries do.
	CompletedActivities int
}

// TotalDuration is the summed overlap across all projects.
func (r Report) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range r.Totals {
		total += t
	}
	return total
}
