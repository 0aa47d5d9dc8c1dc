package repositories

import (
	"context"
	"errors"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Employee, error)
}

type employeeRepo struct {
	db Database
}

func NewEmployeeRepo(db Database) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (name, role, salary, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, employee.Name, employee.Role, employee.Salary).Scan(&employee.ID, &employee.CreatedAt)
}

func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	employee := &models.Employee{}
	err := r.db.QueryRow(ctx, `SELECT id, name, role, salary, created_at FROM employees WHERE id = $1`, id).
		Scan(&employee.ID, &employee.Name, &employee.Role, &employee.Salary, &employee.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `UPDATE employees SET name = $1, role = $2, salary = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, employee.Name, employee.Role, employee.Salary, employee.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("employee")
	}
	return nil
}

func (r *employeeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("employee")
	}
	return nil
}

func (r *employeeRepo) List(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	query := `SELECT id, name, role, salary, created_at FROM employees ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		employee := &models.Employee{}
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Role, &employee.Salary, &employee.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}
