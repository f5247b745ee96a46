package activity

import "time"

// Activity is a recorded span of worked time. StoppedAt is nil while the
// activity is still running; when set, StoppedAt >= StartedAt.
type Activity struct {
	ID          int
	UserID      int
	ProjectID   *int
	Description string
	StartedAt   time.Time
	StoppedAt   *time.Time
}

// Running reports whether the activity has not been stopped yet.
func (a Activity) Running() bool {
	return a.StoppedAt == nil
}
