package generation

import (
	"fmt"
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
	"github.com/jhoicas/Obligaciones-api/internal/domain/schedule"
)

// PlanEntry decisión del planificador para una (empresa, competencia):
// crear o reportar la tarea ya existente. Las entradas existentes llevan el
// id de la tarea para que la UI pueda enlazarla; nunca se recrean.
type PlanEntry struct {
	CompanyID      string
	CompanyName    string
	Competency     string
	Deadline       time.Time
	AlreadyExists  bool
	ExistingTaskID string
}

// BuildPlan evalúa cada par (empresa, período) contra la persistencia y
// decide qué crear. La presencia manda: una tarea finished o late cuenta
// como existente igual que una new. Solo lectura + cómputo, sin efectos.
func BuildPlan(
	taskRepo repository.TaskRepository,
	obligation *entity.Obligation,
	companies []*entity.Company,
	periods []schedule.Period,
) ([]PlanEntry, error) {
	plan := make([]PlanEntry, 0, len(companies)*len(periods))
	for _, company := range companies {
		for _, period := range periods {
			existing, err := taskRepo.FindByCompetency(obligation.ID, company.ID, period.Label)
			if err != nil {
				return nil, fmt.Errorf("buscar tarea %s/%s/%s: %w", obligation.ID, company.ID, period.Label, err)
			}
			entry := PlanEntry{
				CompanyID:   company.ID,
				CompanyName: company.Name,
				Competency:  period.Label,
				Deadline:    period.Deadline,
			}
			if existing != nil {
				entry.AlreadyExists = true
				entry.ExistingTaskID = existing.ID
			}
			plan = append(plan, entry)
		}
	}
	return plan, nil
}
