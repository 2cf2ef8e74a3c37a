package generation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// Materialize confirma las entradas nuevas de un plan: crea una Task por
// entrada con AlreadyExists=false, clona la plantilla de documentos fijada
// a la versión vigente de la obligación y deja una entrada de timeline por
// tarea creada. Debe invocarse con repositorios atados a la misma
// transacción en la que se calculó el plan: si una fila del lote falla, la
// transacción entera se revierte y no quedan tareas parciales.
func Materialize(
	taskRepo repository.TaskRepository,
	docRepo repository.DocumentRepository,
	typeRepo repository.DocumentTypeRepository,
	timelineRepo repository.TimelineRepository,
	obligation *entity.Obligation,
	plan []PlanEntry,
	responsible *string,
	now time.Time,
) ([]*entity.Task, error) {
	// La plantilla se lee una vez, filtrada a la versión fijada.
	types, err := typeRepo.ListActive(obligation.ID, obligation.Version)
	if err != nil {
		return nil, fmt.Errorf("leer plantilla de documentos: %w", err)
	}

	var created []*entity.Task
	for _, entry := range plan {
		if entry.AlreadyExists {
			continue
		}
		task := &entity.Task{
			ID:           uuid.New().String(),
			GroupID:      obligation.GroupID,
			CompanyID:    entry.CompanyID,
			Title:        fmt.Sprintf("%s %s", obligation.Name, entry.Competency),
			Description:  obligation.Description,
			Competency:   entry.Competency,
			Deadline:     entry.Deadline,
			Status:       entity.TaskStatusNew,
			CauseID:      obligation.ID,
			CauseVersion: obligation.Version,
			Responsible:  responsible,
			Percent:      decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := taskRepo.Create(task); err != nil {
			return nil, err
		}
		if err := createDocuments(docRepo, typeRepo, task, types, now); err != nil {
			return nil, err
		}
		if err := timelineRepo.Append(&entity.TimelineEntry{
			ID:        uuid.New().String(),
			TaskID:    task.ID,
			UserID:    responsible,
			Event:     entity.TimelineCreatedTask,
			Detail:    fmt.Sprintf("tarea generada para la competencia %s", entry.Competency),
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("registrar timeline de %s: %w", task.ID, err)
		}
		created = append(created, task)
	}
	return created, nil
}

// createDocuments clona cada DocumentType de la versión fijada como un
// Document unstarted y, si el tipo exige aprobación, congela sus aprobadores
// como firmas pendientes del documento.
func createDocuments(
	docRepo repository.DocumentRepository,
	typeRepo repository.DocumentTypeRepository,
	task *entity.Task,
	types []*entity.DocumentType,
	now time.Time,
) error {
	if len(types) == 0 {
		return nil
	}
	docs := make([]*entity.Document, 0, len(types))
	var sigs []*entity.ApproverSignature
	for _, dt := range types {
		doc := &entity.Document{
			ID:               uuid.New().String(),
			TaskID:           task.ID,
			DocumentTypeID:   dt.ID,
			Name:             dt.Name,
			IsObligatory:     dt.IsObligatory,
			EstimatedDays:    dt.EstimatedDays,
			RequiredFile:     dt.RequiredFile,
			ApprovalRequired: dt.ApprovalRequired,
			DisplayOrder:     dt.DisplayOrder,
			Status:           entity.DocumentStatusUnstarted,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		docs = append(docs, doc)

		if dt.ApprovalRequired != entity.ApprovalNone && dt.ApprovalRequired != "" {
			approvers, err := typeRepo.ListApprovers(dt.ID)
			if err != nil {
				return fmt.Errorf("leer aprobadores de %s: %w", dt.ID, err)
			}
			for _, a := range approvers {
				sigs = append(sigs, &entity.ApproverSignature{
					ID:         uuid.New().String(),
					DocumentID: doc.ID,
					UserID:     a.UserID,
					Sequence:   a.Sequence,
					Status:     entity.SignatureStatusPending,
					CreatedAt:  now,
				})
			}
		}
	}
	if err := docRepo.CreateBatch(docs); err != nil {
		return fmt.Errorf("crear documentos de %s: %w", task.ID, err)
	}
	if len(sigs) > 0 {
		if err := docRepo.CreateSignatures(sigs); err != nil {
			return fmt.Errorf("crear firmas de %s: %w", task.ID, err)
		}
	}
	return nil
}
