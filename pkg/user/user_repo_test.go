// External test package: test_utils imports pkg/user, so an in-package test
// would form an import cycle.
package user_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklog/tracklog/internal/test_utils"
	"github.com/tracklog/tracklog/pkg/user"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	defer cleanup()
	code := m.Run()
	os.Exit(code)
}

func newTestUser(subscriptions ...user.ReportSubscription) user.User {
	uid := uuid.NewString()
	u := user.User{
		Uid:         uid,
		Email:       uid + "@example.com",
		DisplayName: "Test User",
		Settings:    user.Settings{Timezone: "Europe/Warsaw"},
	}
	for _, s := range subscriptions {
		switch s {
		case user.WeekReport:
			u.Settings.ReceiveWeekReport = true
		case user.MonthReport:
			u.Settings.ReceiveMonthReport = true
		}
	}
	return u
}

func TestRepoImpl_CreateAndGetUser(t *testing.T) {
	// given
	ctx := context.Background()
	repo := user.NewUserRepo(db)
	u := newTestUser(user.WeekReport)

	// when
	id, err := repo.CreateUser(ctx, u)
	assert.NoError(t, err)
	assert.NotZero(t, id)

	// then
	stored, err := repo.GetUser(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, u.Uid, stored.Uid)
	assert.Equal(t, u.Email, stored.Email)
	assert.Equal(t, "Europe/Warsaw", stored.Settings.Timezone)
	assert.True(t, stored.Settings.ReceiveWeekReport)
	assert.False(t, stored.Settings.ReceiveMonthReport)
}

func TestRepoImpl_CreateUser_DefaultsTimezone(t *testing.T) {
	// given
	ctx := context.Background()
	repo := user.NewUserRepo(db)
	u := newTestUser()
	u.Settings.Timezone = ""

	// when
	id, err := repo.CreateUser(ctx, u)
	require.NoError(t, err)

	// then
	stored, err := repo.GetUser(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "UTC", stored.Settings.Timezone)
}

func TestRepoImpl_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := user.NewUserRepo(db)

	_, err := repo.GetUser(ctx, 999999)

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRepoImpl_GetUserByUid(t *testing.T) {
	// given
	ctx := context.Background()
	repo := user.NewUserRepo(db)
	u := newTestUser()
	id, err := repo.CreateUser(ctx, u)
	require.NoError(t, err)

	// when
	stored, err := repo.GetUserByUid(ctx, u.Uid)

	// then
	assert.NoError(t, err)
	assert.Equal(t, id, stored.Id)

	_, err = repo.GetUserByUid(ctx, uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRepoImpl_FindReportSubscribers(t *testing.T) {
	// given
	ctx := context.Background()
	repo := user.NewUserRepo(db)
	weekly, err := repo.CreateUser(ctx, newTestUser(user.WeekReport))
	require.NoError(t, err)
	monthly, err := repo.CreateUser(ctx, newTestUser(user.MonthReport))
	require.NoError(t, err)
	both, err := repo.CreateUser(ctx, newTestUser(user.WeekReport, user.MonthReport))
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, newTestUser())
	require.NoError(t, err)

	ids := func(users []user.User) []int {
		result := make([]int, 0, len(users))
		for _, u := range users {
			result = append(result, u.Id)
		}
		return result
	}

	// when
	weekSubscribers, err := repo.FindReportSubscribers(ctx, user.WeekReport)
	assert.NoError(t, err)
	monthSubscribers, err := repo.FindReportSubscribers(ctx, user.MonthReport)
	assert.NoError(t, err)

	// then
	assert.Subset(t, ids(weekSubscribers), []int{weekly, both})
	assert.NotContains(t, ids(weekSubscribers), monthly)
	assert.Subset(t, ids(monthSubscribers), []int{monthly, both})
	assert.NotContains(t, ids(monthSubscribers), weekly)
	assert.IsIncreasing(t, ids(weekSubscribers))
}

func TestRepoImpl_FindReportSubscribers_UnknownSubscription(t *testing.T) {
	ctx := context.Background()
	repo := user.NewUserRepo(db)

	_, err := repo.FindReportSubscribers(ctx, user.ReportSubscription("daily"))

	assert.Error(t, err)
}
