package report

import (
	"errors"
	"fmt"
	"time"
)

// Period selects the aggregation window of a report.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod rejects unrecognized period names at the boundary, so the rest
// of the engine only ever sees the two known values.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodWeek, PeriodMonth:
		return Period(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, value)
}

// Both periods are bucketed into the same fixed label set "01".."04". The
// counts are package constants, not user input; mail templates and API
// clients align by position only.
const (
	weekBucketCount  = 4
	monthBucketCount = 4
)

func (p Period) bucketCount() int {
	if p == PeriodMonth {
		return monthBucketCount
	}
	return weekBucketCount
}

// Bucket is one labeled sub-interval of a report window, half-open [Start, End).
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Window is the half-open interval a report aggregates over, together with
// the buckets partitioning it. Start and End are instants; the partition was
// computed on local calendar days in the requested timezone.
type Window struct {
	Start   time.Time
	End     time.Time
	Buckets []Bucket
}

func (w Window) Labels() []string {
	labels := make([]string, 0, len(w.Buckets))
	for _, b := range w.Buckets {
		labels = append(labels, b.Label)
	}
	return labels
}

// ResolveWindow computes the aggregation window for a period around the
// reference instant, on the local calendar of loc.
//
// The window's end is the end of the local day containing ref; a reference
// falling exactly on local midnight counts as the end of the previous day, so
// a job fired at midnight reports the period that just closed instead of an
// empty new one. A week spans the 7 local days up to that end; a month spans
// the whole local calendar month of the day ending there.
func ResolveWindow(period Period, ref time.Time, loc *time.Location) (Window, error) {
	end := nextMidnight(ref, loc)

	var start time.Time
	switch period {
	case PeriodWeek:
		start = end.AddDate(0, 0, -7)
	case PeriodMonth:
		anchor := end.AddDate(0, 0, -1)
		start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(period))
	}

	return NewWindow(start, end, period, loc), nil
}

// NewWindow partitions a caller-supplied range into the period's buckets.
// This is the explicit-range path: the range is trusted as-is, the period
// only picks the bucket count.
func NewWindow(start time.Time, end time.Time, period Period, loc *time.Location) Window {
	start = start.In(loc)
	end = end.In(loc)
	return Window{
		Start:   start,
		End:     end,
		Buckets: partition(start, end, period.bucketCount()),
	}
}

// partition splits [start, end) into count contiguous buckets of
// ceil(days/count) local days each, the last bucket clipped to end. Windows
// shorter than count days leave trailing empty buckets; consumers align by
// position, so the label sequence stays stable.
func partition(start time.Time, end time.Time, count int) []Bucket {
	days := countDays(start, end)
	perBucket := 0
	if days > 0 {
		perBucket = (days + count - 1) / count
	}

	buckets := make([]Bucket, 0, count)
	bucketStart := start
	for i := 0; i < count; i++ {
		bucketEnd := bucketStart
		if perBucket > 0 {
			bucketEnd = bucketStart.AddDate(0, 0, perBucket)
		}
		if bucketEnd.After(end) || i == count-1 {
			bucketEnd = end
		}
		if bucketEnd.Before(bucketStart) {
			bucketEnd = bucketStart
		}
		buckets = append(buckets, Bucket{
			Label: fmt.Sprintf("%02d", i+1),
			Start: bucketStart,
			End:   bucketEnd,
		})
		bucketStart = bucketEnd
	}
	return buckets
}

// countDays counts local calendar days in [start, end), a partial trailing
// day counting as one. AddDate keeps local midnights across DST changes.
func countDays(start time.Time, end time.Time) int {
	days := 0
	for t := start; t.Before(end); t = t.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// nextMidnight returns the first local midnight at or after t.
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	year, month, day := local.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if local.Equal(midnight) {
		return midnight
	}
	return midnight.AddDate(0, 0, 1)
}
