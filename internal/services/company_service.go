package services

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/repositories"
)

type CompanyInput struct {
	CompanyName *string `json:"company_name" form:"company_name" validate:"omitempty,min=1,max=200"`
	Address     *string `json:"address" form:"address" validate:"omitempty,max=255"`
	Phone       *string `json:"phone" form:"phone" validate:"omitempty,max=50"`
	Currency    *string `json:"currency" form:"currency" validate:"omitempty,min=1,max=10"`
	Theme       *string `json:"theme" form:"theme" validate:"omitempty,min=1,max=20"`
}

type CompanyService interface {
	Get(ctx context.Context) (*models.CompanySetting, error)
	Update(ctx context.Context, in CompanyInput, logo *Upload) (*models.CompanySetting, error)
}

type companyService struct {
	repo  repositories.CompanyRepository
	media *MediaStore
}

func NewCompanyService(repo repositories.CompanyRepository, media *MediaStore) CompanyService {
	return &companyService{repo: repo, media: media}
}

func (s *companyService) Get(ctx context.Context) (*models.CompanySetting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	setting.LogoURL = s.media.URL(ctx, setting.Logo)
	return setting, nil
}

// Update overwrites provided fields only; every column has a default so PUT and PATCH agree.
func (s *companyService) Update(ctx context.Context, in CompanyInput, logo *Upload) (*models.CompanySetting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	assign(&setting.CompanyName, in.CompanyName)
	assign(&setting.Address, in.Address)
	assign(&setting.Phone, in.Phone)
	assign(&setting.Currency, in.Currency)
	assign(&setting.Theme, in.Theme)

	oldLogo := ""
	if logo != nil {
		key, err := s.media.Save(ctx, "company", logo)
		if err != nil {
			return nil, err
		}
		oldLogo, setting.Logo = setting.Logo, key
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}
	s.media.Remove(ctx, oldLogo)

	setting.LogoURL = s.media.URL(ctx, setting.Logo)
	return setting, nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
