package repository

import (
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
)

// ObligationRepository define el puerto de persistencia para Obligation.
type ObligationRepository interface {
	Create(o *entity.Obligation) error
	Update(o *entity.Obligation) error
	GetByID(id string) (*entity.Obligation, error)
	// ListAutomatic devuelve las obligaciones con generación automática
	// activada y ventana de generación todavía abierta a la fecha dada.
	ListAutomatic(now time.Time) ([]*entity.Obligation, error)
	// UpdateHighWater actualiza las marcas informativas de última generación.
	// Nunca se leen para decidir qué generar.
	UpdateHighWater(id, lastCompetence, lastYearMonthQT string) error
}
