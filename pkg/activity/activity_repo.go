package activity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	StoreActivity(ctx context.Context, activity Activity) (Activity, error)
	// FindOverlapping returns the user's activities whose recorded span
	// intersects [from, to), running activities included. Filtering happens
	// in the query; callers must not re-filter. Rows come back ordered by
	// start time, so aggregation sees activities in first-occurrence order.
	FindOverlapping(ctx context.Context, userId int, from time.Time, to time.Time) ([]Activity, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewActivityRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreActivity(ctx context.Context, activity Activity) (Activity, error) {
	query := `INSERT INTO activities (user_id, project_id, description, started_at, stopped_at)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		activity.UserID,
		activity.ProjectID,
		activity.Description,
		activity.StartedAt,
		activity.StoppedAt,
	).Scan(&activity.ID)
	if err != nil {
		log.Errorf("failed to store activity: %v", err)
		return Activity{}, err
	}
	return activity, nil
}

func (r *RepositoryImpl) FindOverlapping(ctx context.Context, userId int, from time.Time, to time.Time) ([]Activity, error) {
	// A row with stopped_at exactly at the window start is returned but
	// contributes zero duration; zero-length activities sitting on the window
	// start must be included, so the bound is inclusive.
	query := `SELECT id, user_id, project_id, description, started_at, stopped_at
				FROM activities
				WHERE user_id = $1
				  AND started_at < $3
				  AND (stopped_at IS NULL OR stopped_at >= $2)
				ORDER BY started_at, id`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		log.Errorf("failed to query activities: %v", err)
		return nil, err
	}
	defer rows.Close()

	activities := make([]Activity, 0, 20)
	for rows.Next() {
		var activity Activity
		err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.ProjectID,
			&activity.Description,
			&activity.StartedAt,
			&activity.StoppedAt,
		)
		if err != nil {
			log.Errorf("failed to scan activity row: %v", err)
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
