package repositories

import (
	"context"
	"errors"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Project, error)
}

type projectRepo struct {
	db Database
}

func NewProjectRepo(db Database) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (title, image, video, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, project.Title, project.Image, project.Video).Scan(&project.ID, &project.CreatedAt)
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project := &models.Project{}
	err := r.db.QueryRow(ctx, `SELECT id, title, image, video, created_at FROM projects WHERE id = $1`, id).
		Scan(&project.ID, &project.Title, &project.Image, &project.Video, &project.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `UPDATE projects SET title = $1, image = $2, video = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, project.Title, project.Image, project.Video, project.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("project")
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("project")
	}
	return nil
}

func (r *projectRepo) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	query := `SELECT id, title, image, video, created_at FROM projects ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.Title, &project.Image, &project.Video, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
