package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndGroup(email, groupID string) (*entity.User, error)
}
