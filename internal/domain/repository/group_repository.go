package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// GroupRepository define el puerto de persistencia para Group.
type GroupRepository interface {
	Create(g *entity.Group) error
	GetByID(id string) (*entity.Group, error)
}
