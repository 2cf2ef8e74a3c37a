package generation

import (
	"context"
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
	"github.com/jhoicas/Obligaciones-api/internal/domain/schedule"
	"github.com/jhoicas/Obligaciones-api/pkg/logger"
)

// AutomaticGenerationUseCase es el punto de entrada del cron: recorre las
// obligaciones con generación automática y ventana abierta, y genera lo que
// falte en [hoy, hoy + months_advanced]. Cada obligación corre en su propia
// transacción; un fallo se aísla y se acumula en la respuesta en lugar de
// abortar el lote.
type AutomaticGenerationUseCase struct {
	txRunner       TxRunner
	obligationRepo repository.ObligationRepository
	companyRepo    repository.CompanyRepository
	log            *logger.Logger
}

// NewAutomaticGenerationUseCase construye el caso de uso del lote automático.
func NewAutomaticGenerationUseCase(
	txRunner TxRunner,
	obligationRepo repository.ObligationRepository,
	companyRepo repository.CompanyRepository,
	log *logger.Logger,
) *AutomaticGenerationUseCase {
	return &AutomaticGenerationUseCase{txRunner: txRunner, obligationRepo: obligationRepo, companyRepo: companyRepo, log: log}
}

// Run procesa todas las obligaciones elegibles. Los errores por obligación
// se recogen y se devuelven completos, nunca se descartan en silencio.
func (uc *AutomaticGenerationUseCase) Run(ctx context.Context, now time.Time) (*dto.AutomaticRunResponse, error) {
	obligations, err := uc.obligationRepo.ListAutomatic(now)
	if err != nil {
		return nil, err
	}

	resp := &dto.AutomaticRunResponse{Errors: []dto.ObligationErrorResponse{}}
	for _, obligation := range obligations {
		resp.Processed++
		created, err := uc.processObligation(ctx, obligation, now)
		if err != nil {
			resp.Errors = append(resp.Errors, dto.ObligationErrorResponse{
				ObligationID: obligation.ID,
				Message:      err.Error(),
			})
			if uc.log != nil {
				uc.log.Error().Err(err).
					Str("obligation_id", obligation.ID).
					Msg("generación automática fallida para la obligación")
			}
			continue
		}
		resp.TasksCreated += created
	}
	return resp, nil
}

// processObligation genera las tareas pendientes de una obligación dentro de
// una sola transacción. Nunca comparte transacción con otra obligación.
func (uc *AutomaticGenerationUseCase) processObligation(ctx context.Context, obligation *entity.Obligation, now time.Time) (int, error) {
	// Configuración contradictoria: se salta la obligación, no el lote.
	if err := schedule.Validate(obligation); err != nil {
		return 0, err
	}
	periods, err := schedule.ComputePeriods(obligation, now, now.AddDate(0, obligation.MonthsAdvanced, 0))
	if err != nil {
		return 0, err
	}
	if len(periods) == 0 {
		return 0, nil
	}
	companies, err := uc.companyRepo.ListByGroup(obligation.GroupID)
	if err != nil {
		return 0, err
	}
	if len(companies) == 0 {
		return 0, nil
	}
	// planAndMaterialize ya reintenta una vez ante un duplicado por carrera;
	// si persiste, sube como error de la obligación y el lote continúa.
	created, err := planAndMaterialize(ctx, uc.txRunner, obligation, companies, periods, nil, now)
	if err != nil {
		return 0, err
	}
	updateHighWater(uc.obligationRepo, uc.log, obligation, periods)
	return len(created), nil
}
