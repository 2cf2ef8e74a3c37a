package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company.
type CompanyRepository interface {
	Create(c *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	ListByIDs(ids []string) ([]*entity.Company, error)
	ListByGroup(groupID string) ([]*entity.Company, error)
}
