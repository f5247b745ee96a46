package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tracklog/tracklog/internal/utils"
	"github.com/tracklog/tracklog/pkg/activity"
	"github.com/tracklog/tracklog/pkg/project"
)

// ErrInvalidReportInput is returned when a required report input (user,
// start, end) is missing. The mail path validates before dispatch.
var ErrInvalidReportInput = errors.New("report requires a user, a start and an end")

type Service interface {
	// BuildForRange aggregates over a caller-supplied [start, end) range.
	// The period only selects the bucket partition.
	BuildForRange(ctx context.Context, userId int, start time.Time, end time.Time, period Period, timezone string) (Report, error)
	// BuildForPeriod derives the window from the period and the current
	// instant in the given timezone, then aggregates over it.
	BuildForPeriod(ctx context.Context, userId int, period Period, timezone string) (Report, error)
}

type ServiceImpl struct {
	activities activity.Repository
	projects   project.Repository
	clock      utils.Clock
}

func NewReportService(activities activity.Repository, projects project.Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		activities: activities,
		projects:   projects,
		clock:      clock,
	}
}

func (s *ServiceImpl) BuildForRange(ctx context.Context, userId int, start time.Time, end time.Time, period Period, timezone string) (Report, error) {
	if userId <= 0 || start.IsZero() || end.IsZero() {
		return Report{}, ErrInvalidReportInput
	}
	if _, err := ParsePeriod(string(period)); err != nil {
		return Report{}, err
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return Report{}, err
	}
	return s.build(ctx, userId, NewWindow(start, end, period, loc))
}

func (s *ServiceImpl) BuildForPeriod(ctx context.Context, userId int, period Period, timezone string) (Report, error) {
	if userId <= 0 {
		return Report{}, ErrInvalidReportInput
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return Report{}, err
	}
	window, err := ResolveWindow(period, s.clock.Now(), loc)
	if err != nil {
		return Report{}, err
	}
	return s.build(ctx, userId, window)
}

type groupKey struct {
	description string
	projectId   int
}

func (s *ServiceImpl) build(ctx context.Context, userId int, window Window) (Report, error) {
	activities, err := s.activities.FindOverlapping(ctx, userId, window.Start, window.End)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch activities: %w", err)
	}
	projects, err := s.projects.FindAllForUser(ctx, userId)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch projects: %w", err)
	}
	log.Debugf("building report for user %d over [%s, %s): %d activities, %d projects",
		userId, window.Start, window.End, len(activities), len(projects))

	now := s.clock.Now()
	bucketCount := len(window.Buckets)

	sums := make(map[int][]time.Duration, len(projects)+1)
	totals := make(map[int]time.Duration, len(projects)+1)
	projectsById := make(map[int]*project.Project, len(projects))
	for i := range projects {
		sums[projects[i].ID] = make([]time.Duration, bucketCount)
		totals[projects[i].ID] = 0
		projectsById[projects[i].ID] = &projects[i]
	}

	var groups []ActivityGroup
	groupIndex := make(map[groupKey]int)
	completed := 0

	for _, act := range activities {
		key := NoProjectID
		if act.ProjectID != nil {
			key = *act.ProjectID
		}
		if _, ok := sums[key]; !ok {
			sums[key] = make([]time.Duration, bucketCount)
		}

		var windowTotal time.Duration
		for i, bucket := range window.Buckets {
			d := Overlap(act, bucket.Start, bucket.End, now)
			sums[key][i] += d
			windowTotal += d
		}
		totals[key] += windowTotal

		if !inWindow(act, window.Start, window.End, now) {
			continue
		}
		if !act.Running() {
			completed++
		}

		gk := groupKey{description: act.Description, projectId: key}
		if idx, ok := groupIndex[gk]; ok {
			groups[idx].Duration += windowTotal
		} else {
			groupIndex[gk] = len(groups)
			groups = append(groups, ActivityGroup{
				Description: act.Description,
				Duration:    windowTotal,
				Project:     projectsById[key],
			})
		}
	}

	return Report{
		Start:               window.Start,
		End:                 window.End,
		Projects:            projects,
		Labels:              window.Labels(),
		Sums:                sums,
		Totals:              totals,
		ActivityGroups:      groups,
		CompletedActivities: completed,
	}, nil
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", timezone, err)
	}
	return loc, nil
}
