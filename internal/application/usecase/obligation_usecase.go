package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
	"github.com/jhoicas/Obligaciones-api/internal/domain/schedule"
)

// ObligationUseCase administra obligaciones y su plantilla versionada de
// documentos. Editar la plantilla sube la versión; las filas de versiones
// anteriores se conservan porque las tareas ya generadas quedan fijadas a
// ellas (CauseVersion).
type ObligationUseCase struct {
	obligationRepo repository.ObligationRepository
	typeRepo       repository.DocumentTypeRepository
}

// NewObligationUseCase construye el caso de uso de obligaciones.
func NewObligationUseCase(obligationRepo repository.ObligationRepository, typeRepo repository.DocumentTypeRepository) *ObligationUseCase {
	return &ObligationUseCase{obligationRepo: obligationRepo, typeRepo: typeRepo}
}

// Create valida la recurrencia, crea la obligación en versión 1 y escribe su
// plantilla inicial de documentos.
func (uc *ObligationUseCase) Create(ctx context.Context, groupID string, in dto.CreateObligationRequest, now time.Time) (*dto.ObligationResponse, error) {
	if in.Name == "" || len(in.DocumentTypes) == 0 {
		return nil, domain.ErrInvalidInput
	}
	initial, err := time.Parse("2006-01-02", in.InitialGenerationDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	var final *time.Time
	if in.FinalGenerationDate != "" {
		f, err := time.Parse("2006-01-02", in.FinalGenerationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if f.Before(initial) {
			return nil, domain.ErrInvalidInput
		}
		final = &f
	}

	obligation := &entity.Obligation{
		ID:                     uuid.New().String(),
		GroupID:                groupID,
		Name:                   in.Name,
		Description:            in.Description,
		Frequency:              in.Frequency,
		DayDeadline:            in.DayDeadline,
		MonthDeadline:          in.MonthDeadline,
		PeriodMonths:           in.PeriodMonths,
		InitialGenerationDate:  initial,
		FinalGenerationDate:    final,
		MonthsAdvanced:         in.MonthsAdvanced,
		GenerateAutomaticTasks: in.GenerateAutomaticTasks,
		Version:                1,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := schedule.Validate(obligation); err != nil {
		return nil, err
	}
	if err := uc.obligationRepo.Create(obligation); err != nil {
		return nil, err
	}
	if err := uc.createTemplate(obligation, in.DocumentTypes, now); err != nil {
		return nil, err
	}
	return toObligationResponse(obligation), nil
}

// UpdateTemplate reemplaza la plantilla de documentos: incrementa la versión
// de la obligación y escribe los tipos nuevos con esa versión. Las tareas ya
// generadas no se ven afectadas: siguen leyendo su versión fijada.
func (uc *ObligationUseCase) UpdateTemplate(ctx context.Context, groupID, obligationID string, in dto.UpdateTemplateRequest, now time.Time) (*dto.ObligationResponse, error) {
	if len(in.DocumentTypes) == 0 {
		return nil, domain.ErrInvalidInput
	}
	obligation, err := uc.loadGroupObligation(groupID, obligationID)
	if err != nil {
		return nil, err
	}
	obligation.Version++
	obligation.UpdatedAt = now
	if err := uc.obligationRepo.Update(obligation); err != nil {
		return nil, err
	}
	if err := uc.createTemplate(obligation, in.DocumentTypes, now); err != nil {
		return nil, err
	}
	return toObligationResponse(obligation), nil
}

// Get devuelve la obligación del grupo.
func (uc *ObligationUseCase) Get(ctx context.Context, groupID, obligationID string) (*dto.ObligationResponse, error) {
	obligation, err := uc.loadGroupObligation(groupID, obligationID)
	if err != nil {
		return nil, err
	}
	return toObligationResponse(obligation), nil
}

func (uc *ObligationUseCase) createTemplate(obligation *entity.Obligation, reqs []dto.DocumentTypeRequest, now time.Time) error {
	types := make([]*entity.DocumentType, 0, len(reqs))
	for i, r := range reqs {
		approval := r.ApprovalRequired
		if approval == "" {
			approval = entity.ApprovalNone
		}
		order := r.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		types = append(types, &entity.DocumentType{
			ID:                uuid.New().String(),
			ObligationID:      obligation.ID,
			ObligationVersion: obligation.Version,
			Name:              r.Name,
			IsObligatory:      r.IsObligatory,
			EstimatedDays:     r.EstimatedDays,
			RequiredFile:      r.RequiredFile,
			ApprovalRequired:  approval,
			DisplayOrder:      order,
			Active:            true,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return uc.typeRepo.CreateBatch(types)
}

func (uc *ObligationUseCase) loadGroupObligation(groupID, obligationID string) (*entity.Obligation, error) {
	if obligationID == "" {
		return nil, domain.ErrInvalidInput
	}
	obligation, err := uc.obligationRepo.GetByID(obligationID)
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

func toObligationResponse(o *entity.Obligation) *dto.ObligationResponse {
	var final *string
	if o.FinalGenerationDate != nil {
		s := o.FinalGenerationDate.Format("2006-01-02")
		final = &s
	}
	return &dto.ObligationResponse{
		ID:                     o.ID,
		GroupID:                o.GroupID,
		Name:                   o.Name,
		Description:            o.Description,
		Frequency:              o.Frequency,
		DayDeadline:            o.DayDeadline,
		MonthDeadline:          o.MonthDeadline,
		PeriodMonths:           o.PeriodMonths,
		InitialGenerationDate:  o.InitialGenerationDate.Format("2006-01-02"),
		FinalGenerationDate:    final,
		MonthsAdvanced:         o.MonthsAdvanced,
		GenerateAutomaticTasks: o.GenerateAutomaticTasks,
		Version:                o.Version,
		LastCompetence:         o.LastCompetence,
		CreatedAt:              o.CreatedAt,
	}
}
