package report

import (
	"context"
	"time"

	"github.com/tracklog/tracklog/pkg/activity"
	"github.com/tracklog/tracklog/pkg/project"
	"github.com/tracklog/tracklog/pkg/user"
)

type stubActivityRepository struct {
	nextId     int
	activities []activity.Activity
}

func newStubActivityRepository() *stubActivityRepository {
	return &stubActivityRepository{}
}

func (s *stubActivityRepository) StoreActivity(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	s.nextId++
	a.ID = s.nextId
	s.activities = append(s.activities, a)
	return a, nil
}

// FindOverlapping mirrors the SQL predicate of the real repository: started
// before the window end, and not stopped before the window start.
func (s *stubActivityRepository) FindOverlapping(ctx context.Context, userId int, from time.Time, to time.Time) ([]activity.Activity, error) {
	var found []activity.Activity
	for _, a := range s.activities {
		if a.UserID != userId {
			continue
		}
		if !a.StartedAt.Before(to) {
			continue
		}
		if a.StoppedAt != nil && a.StoppedAt.Before(from) {
			continue
		}
		found = append(found, a)
	}
	return found, nil
}

type stubProjectRepository struct {
	nextId   int
	projects []project.Project
}

func newStubProjectRepository() *stubProjectRepository {
	return &stubProjectRepository{}
}

func (s *stubProjectRepository) CreateProject(ctx context.Context, p project.Project) (project.Project, error) {
	s.nextId++
	p.ID = s.nextId
	s.projects = append(s.projects, p)
	return p, nil
}

func (s *stubProjectRepository) FindAllForUser(ctx context.Context, userId int) ([]project.Project, error) {
	var found []project.Project
	for _, p := range s.projects {
		if p.UserID == userId {
			found = append(found, p)
		}
	}
	return found, nil
}

type sentMail struct {
	recipient user.User
	title     string
	report    Report
}

type stubMailDispatcher struct {
	sent    []sentMail
	failFor map[int]error // user id -> error to return
}

func newStubMailDispatcher() *stubMailDispatcher {
	return &stubMailDispatcher{failFor: map[int]error{}}
}

func (s *stubMailDispatcher) SendReport(ctx context.Context, recipient user.User, title string, report Report) error {
	if err := s.failFor[recipient.Id]; err != nil {
		return err
	}
	s.sent = append(s.sent, sentMail{recipient: recipient, title: title, report: report})
	return nil
}
