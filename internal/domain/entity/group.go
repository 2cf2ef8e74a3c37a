package entity

import "time"

// Group representa una organización/tenant del sistema: el dueño de las
// obligaciones y de las empresas sobre las que se generan tareas.
type Group struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
