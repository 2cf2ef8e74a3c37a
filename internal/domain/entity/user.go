package entity

import "time"

// Roles de usuario dentro de un grupo.
const (
	RoleAdmin       = "admin"
	RoleGestor      = "gestor"
	RoleColaborador = "colaborador"
)

// User usuario del sistema, pertenece a un grupo (tenant).
type User struct {
	ID           string
	GroupID      string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
