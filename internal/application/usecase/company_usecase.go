package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// CompanyUseCase alta y consulta de empresas del grupo.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso de empresas.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra una empresa en el grupo.
func (uc *CompanyUseCase) Create(ctx context.Context, groupID string, in dto.CreateCompanyRequest, now time.Time) (*dto.CompanyResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// List devuelve las empresas del grupo.
func (uc *CompanyUseCase) List(ctx context.Context, groupID string) ([]dto.CompanyResponse, error) {
	companies, err := uc.companyRepo.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, *toCompanyResponse(c))
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:      c.ID,
		GroupID: c.GroupID,
		Name:    c.Name,
		TaxID:   c.TaxID,
		Email:   c.Email,
		Status:  c.Status,
	}
}
