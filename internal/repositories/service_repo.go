package repositories

import (
	"context"
	"errors"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id int64) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Service, error)
}

type serviceRepo struct {
	db Database
}

func NewServiceRepo(db Database) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (name, price, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, service.Name, service.Price).Scan(&service.ID, &service.CreatedAt)
}

func (r *serviceRepo) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	service := &models.Service{}
	err := r.db.QueryRow(ctx, `SELECT id, name, price, created_at FROM services WHERE id = $1`, id).
		Scan(&service.ID, &service.Name, &service.Price, &service.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("service")
	}
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (r *serviceRepo) Update(ctx context.Context, service *models.Service) error {
	tag, err := r.db.Exec(ctx, `UPDATE services SET name = $1, price = $2 WHERE id = $3`, service.Name, service.Price, service.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("service")
	}
	return nil
}

// Delete refuses to remove a service still referenced by invoice items.
func (r *serviceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return common.Conflict("service is referenced by invoice items")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("service")
	}
	return nil
}

func (r *serviceRepo) List(ctx context.Context, limit, offset int) ([]*models.Service, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price, created_at FROM services ORDER BY id DESC LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []*models.Service{}
	for rows.Next() {
		service := &models.Service{}
		if err := rows.Scan(&service.ID, &service.Name, &service.Price, &service.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}
