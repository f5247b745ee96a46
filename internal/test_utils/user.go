package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tracklog/tracklog/pkg/user"
)

// CreateTestUser inserts a user with sane defaults and returns it with its id set.
func CreateTestUser(t *testing.T, db *pgxpool.Pool, u user.User) user.User {
	t.Helper()

	if u.Uid == "" {
		u.Uid = uuid.NewString()
	}
	if u.Email == "" {
		u.Email = u.Uid + "@example.com"
	}
	if u.Settings.Timezone == "" {
		u.Settings.Timezone = "UTC"
	}

	repo := user.NewUserRepo(db)
	id, err := repo.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	u.Id = id
	return u
}
