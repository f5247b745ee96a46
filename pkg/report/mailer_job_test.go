package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklog/tracklog/internal/utils"
	"github.com/tracklog/tracklog/pkg/activity"
	"github.com/tracklog/tracklog/pkg/user"
)

func activityAt(userId int, start time.Time, stop *time.Time) activity.Activity {
	return activity.Activity{
		UserID:      userId,
		Description: "Work",
		StartedAt:   start,
		StoppedAt:   stop,
	}
}

type mailerFixture struct {
	users      *user.StubUserRepository
	activities *stubActivityRepository
	clock      *utils.MockClock
	mailer     *stubMailDispatcher
	job        *MailerJob
}

func newMailerFixture(now time.Time) mailerFixture {
	users := user.NewStubUserRepository()
	activities := newStubActivityRepository()
	clock := &utils.MockClock{FixedNow: now}
	mailer := newStubMailDispatcher()
	reports := NewReportService(activities, newStubProjectRepository(), clock)
	return mailerFixture{
		users:      users,
		activities: activities,
		clock:      clock,
		mailer:     mailer,
		job:        NewMailerJob(user.NewUserService(users), reports, mailer),
	}
}

func (f mailerFixture) addUser(t *testing.T, u user.User) user.User {
	t.Helper()
	id, err := f.users.CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.Id = id
	return u
}

func (f mailerFixture) addClosedActivity(t *testing.T, userId int, start time.Time, stop time.Time) {
	t.Helper()
	_, err := f.activities.StoreActivity(context.Background(), activityAt(userId, start, &stop))
	require.NoError(t, err)
}

func weekSubscriber(timezone string) user.User {
	return user.User{Settings: user.Settings{Timezone: timezone, ReceiveWeekReport: true}}
}

func TestMailerJob_Week(t *testing.T) {
	ctx := context.Background()
	// Sunday midnight: the closed window is Jan 1 through Jan 7.
	now := time.Date(2017, 1, 8, 0, 0, 0, 0, time.UTC)

	t.Run("mails subscribers with completed activity in the window", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, weekSubscriber("UTC"))
		f.addClosedActivity(t, u.Id,
			time.Date(2017, 1, 3, 9, 0, 0, 0, time.UTC),
			time.Date(2017, 1, 3, 10, 0, 0, 0, time.UTC))

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, u.Id, f.mailer.sent[0].recipient.Id)
		assert.Equal(t, "Weekly report 2017-01-01 - 2017-01-07", f.mailer.sent[0].title)
		assert.Equal(t, time.Hour, f.mailer.sent[0].report.TotalDuration())
	})

	t.Run("skips subscribers without any activity", func(t *testing.T) {
		f := newMailerFixture(now)
		f.addUser(t, weekSubscriber("UTC"))

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("a zero-length activity at the window end does not count", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, weekSubscriber("UTC"))
		boundary := time.Date(2017, 1, 8, 0, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, u.Id, boundary, boundary)

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("a still-running activity alone does not trigger a mail", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, weekSubscriber("UTC"))
		_, err := f.activities.StoreActivity(ctx, activityAt(u.Id, time.Date(2017, 1, 3, 9, 0, 0, 0, time.UTC), nil))
		require.NoError(t, err)

		err = f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("window boundaries follow the subscriber's timezone", func(t *testing.T) {
		// In Asia/Tokyo the window is Jan 2 through Jan 8 local time, i.e.
		// [2017-01-01T15:00Z, 2017-01-08T15:00Z).
		f := newMailerFixture(now)
		inside := f.addUser(t, weekSubscriber("Asia/Tokyo"))
		outside := f.addUser(t, weekSubscriber("Asia/Tokyo"))
		edge := time.Date(2017, 1, 1, 15, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, inside.Id, edge, edge)
		before := edge.Add(-time.Second)
		f.addClosedActivity(t, outside.Id, before, before)

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, inside.Id, f.mailer.sent[0].recipient.Id)
	})

	t.Run("mails every subscriber in selection order", func(t *testing.T) {
		f := newMailerFixture(now)
		first := f.addUser(t, weekSubscriber("UTC"))
		second := f.addUser(t, weekSubscriber("UTC"))
		start := time.Date(2017, 1, 3, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, first.Id, start, start.Add(time.Hour))
		f.addClosedActivity(t, second.Id, start, start.Add(2*time.Hour))

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 2)
		assert.Equal(t, first.Id, f.mailer.sent[0].recipient.Id)
		assert.Equal(t, second.Id, f.mailer.sent[1].recipient.Id)
	})

	t.Run("ignores users who have not opted in", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, user.User{Settings: user.Settings{Timezone: "UTC"}})
		start := time.Date(2017, 1, 3, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, u.Id, start, start.Add(time.Hour))

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("one failed delivery does not block the others", func(t *testing.T) {
		f := newMailerFixture(now)
		failing := f.addUser(t, weekSubscriber("UTC"))
		working := f.addUser(t, weekSubscriber("UTC"))
		start := time.Date(2017, 1, 3, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, failing.Id, start, start.Add(time.Hour))
		f.addClosedActivity(t, working.Id, start, start.Add(time.Hour))
		f.mailer.failFor[failing.Id] = errors.New("smtp connection refused")

		err := f.job.Run(ctx, PeriodWeek)

		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, working.Id, f.mailer.sent[0].recipient.Id)
	})
}

func TestMailerJob_Month(t *testing.T) {
	ctx := context.Background()
	// Midnight on February 1st closes the January window.
	now := time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)

	monthSubscriber := func() user.User {
		return user.User{Settings: user.Settings{Timezone: "UTC", ReceiveMonthReport: true}}
	}

	t.Run("mails subscribers with activity in the closed month", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, monthSubscriber())
		start := time.Date(2017, 1, 15, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, u.Id, start, start.Add(time.Hour))

		err := f.job.Run(ctx, PeriodMonth)

		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "Monthly report January 2017", f.mailer.sent[0].title)
	})

	t.Run("activity from the previous month does not count", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, monthSubscriber())
		start := time.Date(2016, 12, 1, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, u.Id, start, start.Add(time.Hour))

		err := f.job.Run(ctx, PeriodMonth)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("week subscribers are not on the month list", func(t *testing.T) {
		f := newMailerFixture(now)
		u := f.addUser(t, weekSubscriber("UTC"))
		start := time.Date(2017, 1, 15, 9, 0, 0, 0, time.UTC)
		f.addClosedActivity(t, u.Id, start, start.Add(time.Hour))

		err := f.job.Run(ctx, PeriodMonth)

		require.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})
}

func TestMailerJob_InvalidPeriod(t *testing.T) {
	f := newMailerFixture(time.Now())

	err := f.job.Run(context.Background(), Period("quarter"))

	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
