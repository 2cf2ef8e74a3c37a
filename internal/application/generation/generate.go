package generation

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
	"github.com/jhoicas/Obligaciones-api/internal/domain/schedule"
	"github.com/jhoicas/Obligaciones-api/pkg/logger"
)

// GenerateUseCase materializa tareas para competencias explícitas.
// El plan se recalcula dentro de la transacción de commit: la verificación
// "¿ya existe?" y el insert ven el mismo snapshot, así dos corridas
// concurrentes no pueden duplicar una (obligación, empresa, competencia).
type GenerateUseCase struct {
	txRunner       TxRunner
	obligationRepo repository.ObligationRepository
	companyRepo    repository.CompanyRepository
	log            *logger.Logger
}

// NewGenerateUseCase construye el caso de uso de generación interactiva.
func NewGenerateUseCase(
	txRunner TxRunner,
	obligationRepo repository.ObligationRepository,
	companyRepo repository.CompanyRepository,
	log *logger.Logger,
) *GenerateUseCase {
	return &GenerateUseCase{txRunner: txRunner, obligationRepo: obligationRepo, companyRepo: companyRepo, log: log}
}

// GenerateTasks crea las tareas que falten para (empresas x competencias).
// Idempotente: una segunda llamada con los mismos argumentos devuelve
// count=0 porque todas las entradas del plan salen como existentes.
// Si la transacción pierde la carrera contra otra corrida (violación del
// unique por competencia), se reintenta el ciclo completo una vez.
func (uc *GenerateUseCase) GenerateTasks(ctx context.Context, groupID string, in dto.GenerateRequest, now time.Time) (*dto.GenerateResponse, error) {
	obligation, err := loadGroupObligation(uc.obligationRepo, groupID, in.ObligationID)
	if err != nil {
		return nil, err
	}
	periods, err := resolveCompetencies(obligation, in.Competencies)
	if err != nil {
		return nil, err
	}
	companies, err := resolveCompanies(uc.companyRepo, groupID, in.CompanyIDs)
	if err != nil {
		return nil, err
	}
	var responsible *string
	if in.ResponsibleUserID != "" {
		responsible = &in.ResponsibleUserID
	}

	created, err := planAndMaterialize(ctx, uc.txRunner, obligation, companies, periods, responsible, now)
	if err != nil {
		return nil, err
	}
	updateHighWater(uc.obligationRepo, uc.log, obligation, periods)

	resp := &dto.GenerateResponse{Tasks: make([]dto.TaskResponse, 0, len(created)), Count: len(created)}
	for _, t := range created {
		resp.Tasks = append(resp.Tasks, dto.ToTaskResponse(t))
	}
	return resp, nil
}

// planAndMaterialize ejecuta plan + materialización en una transacción, con
// un reintento completo si otra corrida gana la carrera del unique. La
// transacción es la unidad de reintento: nunca se re-aplica a medias.
func planAndMaterialize(
	ctx context.Context,
	txRunner TxRunner,
	obligation *entity.Obligation,
	companies []*entity.Company,
	periods []schedule.Period,
	responsible *string,
	now time.Time,
) ([]*entity.Task, error) {
	var created []*entity.Task
	attempt := func() error {
		created = nil
		return txRunner.Run(ctx, func(
			taskRepo repository.TaskRepository,
			docRepo repository.DocumentRepository,
			typeRepo repository.DocumentTypeRepository,
			timelineRepo repository.TimelineRepository,
		) error {
			plan, err := BuildPlan(taskRepo, obligation, companies, periods)
			if err != nil {
				return err
			}
			created, err = Materialize(taskRepo, docRepo, typeRepo, timelineRepo, obligation, plan, responsible, now)
			return err
		})
	}
	err := attempt()
	if errors.Is(err, domain.ErrDuplicateTask) {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// resolveCompetencies traduce etiquetas explícitas a períodos con fecha
// límite, normalizadas, deduplicadas y ordenadas por vencimiento.
func resolveCompetencies(obligation *entity.Obligation, labels []string) ([]schedule.Period, error) {
	if len(labels) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(labels))
	periods := make([]schedule.Period, 0, len(labels))
	for _, label := range labels {
		p, err := schedule.DeadlineForLabel(obligation, label)
		if err != nil {
			return nil, err
		}
		if seen[p.Label] {
			continue
		}
		seen[p.Label] = true
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Deadline.Before(periods[j].Deadline) })
	return periods, nil
}

// updateHighWater refresca las marcas informativas de última generación.
// Best effort: un fallo aquí no afecta la corrección (la fuente de verdad
// es la verificación de existencia dentro de la transacción).
func updateHighWater(repo repository.ObligationRepository, log *logger.Logger, obligation *entity.Obligation, periods []schedule.Period) {
	if len(periods) == 0 {
		return
	}
	last := periods[len(periods)-1].Label
	lastCompetence, lastYearMonthQT := obligation.LastCompetence, obligation.LastYearMonthQT
	if obligation.Frequency == entity.FrequencyMonthly {
		lastCompetence = last
	} else {
		lastYearMonthQT = last
	}
	if err := repo.UpdateHighWater(obligation.ID, lastCompetence, lastYearMonthQT); err != nil && log != nil {
		log.Warn().Err(err).Str("obligation_id", obligation.ID).Msg("no se pudo actualizar la marca de última generación")
	}
}
