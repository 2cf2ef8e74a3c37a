package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// TaskRepository define el puerto de persistencia para Task.
// Usado dentro de transacciones en el ciclo plan -> materialización.
type TaskRepository interface {
	// FindByCompetency busca la tarea viva (no borrada) para la tripleta
	// (obligación, empresa, competencia). nil si no existe. La presencia
	// manda: una tarea finished o late también cuenta como existente.
	FindByCompetency(obligationID, companyID, competency string) (*entity.Task, error)
	Create(t *entity.Task) error
	Update(t *entity.Task) error
	GetByID(id string) (*entity.Task, error)
	ListByGroup(groupID string, limit, offset int) ([]*entity.Task, error)
}
