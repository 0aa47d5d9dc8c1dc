package services

import (
	"context"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/shopspring/decimal"
)

type ServiceInput struct {
	Name  *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

type EmployeeInput struct {
	Name   *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Role   *string          `json:"role" validate:"omitempty,max=200"`
	Salary *decimal.Decimal `json:"salary" validate:"omitempty,gte=0"`
}

// CatalogService manages billable services and employees.
type CatalogService interface {
	CreateService(ctx context.Context, in ServiceInput) (*models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	UpdateService(ctx context.Context, id int64, in ServiceInput, partial bool) (*models.Service, error)
	DeleteService(ctx context.Context, id int64) error
	ListServices(ctx context.Context, limit, offset int) ([]*models.Service, error)

	CreateEmployee(ctx context.Context, in EmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, in EmployeeInput, partial bool) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context, limit, offset int) ([]*models.Employee, error)
}

type catalogService struct {
	serviceRepo  repositories.ServiceRepository
	employeeRepo repositories.EmployeeRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository, employeeRepo repositories.EmployeeRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo, employeeRepo: employeeRepo}
}

func requiredName(name *string) error {
	if name == nil {
		return common.NewValidationError("name", "This field is required.")
	}
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := requiredName(in.Name); err != nil {
		return nil, err
	}
	svc := &models.Service{}
	assign(&svc.Name, in.Name)
	assign(&svc.Price, in.Price)
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	return s.serviceRepo.GetByID(ctx, id)
}

func (s *catalogService) UpdateService(ctx context.Context, id int64, in ServiceInput, partial bool) (*models.Service, error) {
	if !partial {
		if err := requiredName(in.Name); err != nil {
			return nil, err
		}
	}
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assign(&svc.Name, in.Name)
	assign(&svc.Price, in.Price)
	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService fails with a conflict while invoice items still reference it.
func (s *catalogService) DeleteService(ctx context.Context, id int64) error {
	return s.serviceRepo.Delete(ctx, id)
}

func (s *catalogService) ListServices(ctx context.Context, limit, offset int) ([]*models.Service, error) {
	return s.serviceRepo.List(ctx, limit, offset)
}

func (s *catalogService) CreateEmployee(ctx context.Context, in EmployeeInput) (*models.Employee, error) {
	if err := requiredName(in.Name); err != nil {
		return nil, err
	}
	emp := &models.Employee{}
	applyEmployee(emp, in)
	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *catalogService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *catalogService) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput, partial bool) (*models.Employee, error) {
	if !partial {
		if err := requiredName(in.Name); err != nil {
			return nil, err
		}
	}
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEmployee(emp, in)
	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func applyEmployee(e *models.Employee, in EmployeeInput) {
	assign(&e.Name, in.Name)
	assign(&e.Role, in.Role)
	assign(&e.Salary, in.Salary)
}

func (s *catalogService) DeleteEmployee(ctx context.Context, id int64) error {
	return s.employeeRepo.Delete(ctx, id)
}

func (s *catalogService) ListEmployees(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	return s.employeeRepo.List(ctx, limit, offset)
}
