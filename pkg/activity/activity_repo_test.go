package activity

import (
	"context"
	"os"
	"testing"
	"time"

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

func setupTestRepository(t *testing.T) (context.Context, Repository, int) {
	ctx := context.Background()
	repository := NewActivityRepo(db)
	owner := test_utils.CreateTestUser(t, db, user.User{DisplayName: "Activity Owner"})
	return ctx, repository, owner.Id
}

func TestRepositoryImpl_StoreActivity(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	start := time.Date(2019, 1, 2, 9, 0, 0, 0, time.UTC)
	stop := start.Add(time.Hour)

	// when
	stored, err := repo.StoreActivity(ctx, Activity{
		UserID:      userId,
		Description: "Code review",
		StartedAt:   start,
		StoppedAt:   &stop,
	})
	assert.NoError(t, err)
	assert.NotZero(t, stored.ID)

	// then
	found, err := repo.FindOverlapping(ctx, userId, start.AddDate(0, 0, -1), stop.AddDate(0, 0, 1))
	assert.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stored.ID, found[0].ID)
	assert.Equal(t, "Code review", found[0].Description)
	assert.True(t, found[0].StartedAt.Equal(start))
	require.NotNil(t, found[0].StoppedAt)
	assert.True(t, found[0].StoppedAt.Equal(stop))
	assert.Nil(t, found[0].ProjectID)
}

func TestRepositoryImpl_FindOverlapping(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	from := time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2019, 1, 14, 0, 0, 0, 0, time.UTC)

	store := func(description string, start time.Time, stop *time.Time) Activity {
		stored, err := repo.StoreActivity(ctx, Activity{
			UserID:      userId,
			Description: description,
			StartedAt:   start,
			StoppedAt:   stop,
		})
		require.NoError(t, err)
		return stored
	}
	closedAt := func(t0 time.Time) *time.Time { return &t0 }

	beforeStop := from.Add(-time.Hour)
	store("stopped before the window", from.Add(-2*time.Hour), &beforeStop)
	store("started at the window end", to, closedAt(to.Add(time.Hour)))
	inside := store("inside", from.Add(24*time.Hour), closedAt(from.Add(26*time.Hour)))
	spanning := store("spanning the window start", from.Add(-time.Hour), closedAt(from.Add(time.Hour)))
	onEdge := store("stopped exactly at the window start", from.Add(-time.Hour), &from)
	running := store("still running", from.Add(48*time.Hour), nil)

	// when
	found, err := repo.FindOverlapping(ctx, userId, from, to)

	// then
	assert.NoError(t, err)
	require.Len(t, found, 4)
	// ordered by start time
	assert.Equal(t, spanning.ID, found[0].ID)
	assert.Equal(t, onEdge.ID, found[1].ID)
	assert.Equal(t, inside.ID, found[2].ID)
	assert.Equal(t, running.ID, found[3].ID)
	assert.Nil(t, found[3].StoppedAt)
}

func TestRepositoryImpl_FindOverlapping_FiltersByUser(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	other := test_utils.CreateTestUser(t, db, user.User{DisplayName: "Someone Else"})
	start := time.Date(2019, 3, 1, 9, 0, 0, 0, time.UTC)
	stop := start.Add(time.Hour)
	_, err := repo.StoreActivity(ctx, Activity{UserID: other.Id, Description: "Theirs", StartedAt: start, StoppedAt: &stop})
	require.NoError(t, err)

	// when
	found, err := repo.FindOverlapping(ctx, userId, start.AddDate(0, 0, -1), stop.AddDate(0, 0, 1))

	// then
	assert.NoError(t, err)
	assert.Empty(t, found)
}
