package entity

import "time"

// Company representa una entidad legal dentro de un grupo: el objetivo de
// las tareas generadas. Una obligación del grupo aplica a N empresas.
type Company struct {
	ID        string
	GroupID   string
	Name      string
	TaxID     string // identificación tributaria (con o sin dígito de verificación)
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
