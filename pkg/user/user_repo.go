package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	FindReportSubscribers(ctx context.Context, subscription ReportSubscription) ([]User, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (u *RepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	timezone := user.Settings.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	query := `INSERT INTO users (uid, email, display_name, timezone, receive_week_report, receive_month_report)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Email,
		user.DisplayName,
		timezone,
		user.Settings.ReceiveWeekReport,
		user.Settings.ReceiveMonthReport,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, email, display_name, timezone, receive_week_report, receive_month_report
				FROM users WHERE id = $1`
	var user User
	err := u.db.QueryRow(ctx, query, id).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.DisplayName,
			&user.Settings.Timezone,
			&user.Settings.ReceiveWeekReport,
			&user.Settings.ReceiveMonthReport,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, email, display_name, timezone, receive_week_report, receive_month_report
				FROM users WHERE uid = $1`
	var user User
	err := u.db.QueryRow(ctx, query, uid).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.DisplayName,
			&user.Settings.Timezone,
			&user.Settings.ReceiveWeekReport,
			&user.Settings.ReceiveMonthReport,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("user with uid %s not found", uid)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

// FindReportSubscribers returns all users that opted into the given report, in id order.
// The mailer job relies on this ordering for deterministic dispatch.
func (u *RepoImpl) FindReportSubscribers(ctx context.Context, subscription ReportSubscription) ([]User, error) {
	var flagColumn string
	switch subscription {
	case WeekReport:
		flagColumn = "receive_week_report"
	case MonthReport:
		flagColumn = "receive_month_report"
	default:
		return nil, fmt.Errorf("unknown report subscription: %q", subscription)
	}

	query := fmt.Sprintf(`SELECT id, uid, email, display_name, timezone, receive_week_report, receive_month_report
				FROM users WHERE %s ORDER BY id`, flagColumn)
	rows, err := u.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to list report subscribers: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0, 10)
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.DisplayName,
			&user.Settings.Timezone,
			&user.Settings.ReceiveWeekReport,
			&user.Settings.ReceiveMonthReport,
		)
		if err != nil {
			log.Errorf("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
