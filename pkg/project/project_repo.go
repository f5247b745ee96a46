package project

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateProject(ctx context.Context, project Project) (Project, error)
	// FindAllForUser returns all of the user's projects in creation order,
	// including projects with no recorded activity.
	FindAllForUser(ctx context.Context, userId int) ([]Project, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewProjectRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateProject(ctx context.Context, project Project) (Project, error) {
	query := `INSERT INTO projects (user_id, name, color) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, project.UserID, project.Name, project.Color).Scan(&project.ID)
	if err != nil {
		log.Errorf("failed to create project: %v", err)
		return Project{}, err
	}
	return project, nil
}

func (r *RepositoryImpl) FindAllForUser(ctx context.Context, userId int) ([]Project, error) {
	query := `SELECT id, user_id, name, color FROM projects WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to list projects: %v", err)
		return nil, err
	}
	defer rows.Close()

	projects := make([]Project, 0, 10)
	for rows.Next() {
		var project Project
		if err := rows.Scan(&project.ID, &project.UserID, &project.Name, &project.Color); err != nil {
			log.Errorf("failed to scan project row: %v", err)
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
