package generation

import (
	"context"
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
	"github.com/jhoicas/Obligaciones-api/internal/domain/schedule"
)

// PreviewUseCase calcula el plan de generación sin materializarlo.
// Solo lecturas consistentes; no requiere transacción.
type PreviewUseCase struct {
	obligationRepo repository.ObligationRepository
	companyRepo    repository.CompanyRepository
	taskRepo       repository.TaskRepository
}

// NewPreviewUseCase construye el caso de uso de vista previa.
func NewPreviewUseCase(
	obligationRepo repository.ObligationRepository,
	companyRepo repository.CompanyRepository,
	taskRepo repository.TaskRepository,
) *PreviewUseCase {
	return &PreviewUseCase{obligationRepo: obligationRepo, companyRepo: companyRepo, taskRepo: taskRepo}
}

// PreviewTasks devuelve, para cada (empresa, competencia) del rango, si la
// tarea ya existe o se crearía. El commit usa el mismo planificador pero
// recalcula el plan dentro de su transacción (ver GenerateUseCase).
func (uc *PreviewUseCase) PreviewTasks(ctx context.Context, groupID string, in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	obligation, err := loadGroupObligation(uc.obligationRepo, groupID, in.ObligationID)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	periods, err := schedule.ComputePeriods(obligation, start, end)
	if err != nil {
		return nil, err
	}
	companies, err := resolveCompanies(uc.companyRepo, groupID, in.CompanyIDs)
	if err != nil {
		return nil, err
	}
	plan, err := BuildPlan(uc.taskRepo, obligation, companies, periods)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewResponse{
		Preview:      make([]dto.PlanEntryResponse, 0, len(plan)),
		Competencies: make([]string, 0, len(periods)),
	}
	for _, p := range periods {
		resp.Competencies = append(resp.Competencies, p.Label)
	}
	for _, e := range plan {
		resp.Preview = append(resp.Preview, dto.PlanEntryResponse{
			CompanyID:      e.CompanyID,
			CompanyName:    e.CompanyName,
			Competency:     e.Competency,
			Deadline:       e.Deadline.Format("2006-01-02"),
			AlreadyExists:  e.AlreadyExists,
			ExistingTaskID: e.ExistingTaskID,
		})
		if e.AlreadyExists {
			resp.TotalExisting++
		} else {
			resp.TotalNew++
		}
	}
	return resp, nil
}

// ── helpers compartidos por preview/commit/automático ─────────────────────────

func loadGroupObligation(repo repository.ObligationRepository, groupID, obligationID string) (*entity.Obligation, error) {
	if obligationID == "" {
		return nil, domain.ErrInvalidInput
	}
	obligation, err := repo.GetByID(obligationID)
	if err != nil {
		return nil, err
	}
	if obligation == nil {
		return nil, domain.ErrNotFound
	}
	if obligation.GroupID != groupID {
		return nil, domain.ErrForbidden
	}
	return obligation, nil
}

func resolveCompanies(repo repository.CompanyRepository, groupID string, ids []string) ([]*entity.Company, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}
	companies, err := repo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(companies) != len(ids) {
		return nil, domain.ErrNotFound
	}
	for _, c := range companies {
		if c.GroupID != groupID {
			return nil, domain.ErrForbidden
		}
	}
	return companies, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}
