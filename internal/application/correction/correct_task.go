// Package correction implementa la rectificación de tareas: crear una tarea
// sucesora enlazada cuando una tarea cerrada necesita rehacerse.
package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// TxRunner ejecuta la rectificación (marcar original + crear sucesora +
// clonar documentos) dentro de una sola transacción de BD.
type TxRunner interface {
	RunCorrection(ctx context.Context, fn func(
		taskRepo repository.TaskRepository,
		docRepo repository.DocumentRepository,
		timelineRepo repository.TimelineRepository,
	) error) error
}

// CorrectTaskUseCase rectifica una tarea: la original pasa a rectified
// (estado terminal) y nace una sucesora enlazada vía TaskCorrected con la
// nueva fecha límite y los documentos clonados en limpio.
type CorrectTaskUseCase struct {
	txRunner TxRunner
}

// NewCorrectTaskUseCase construye el caso de uso de rectificación.
func NewCorrectTaskUseCase(txRunner TxRunner) *CorrectTaskUseCase {
	return &CorrectTaskUseCase{txRunner: txRunner}
}

// Correct rectifica la tarea taskID con la nueva fecha límite. Rechaza con
// ErrInvalidDeadline toda fecha que no sea estrictamente posterior a hoy,
// antes de mutar nada. La cadena de rectificaciones no tiene tope: una
// sucesora puede rectificarse a su vez (enlace simple hijo -> padre).
func (uc *CorrectTaskUseCase) Correct(ctx context.Context, groupID, taskID, userID string, newDeadline, now time.Time) (*entity.Task, error) {
	if !dateOnly(newDeadline).After(dateOnly(now)) {
		return nil, domain.ErrInvalidDeadline
	}

	var successor *entity.Task
	err := uc.txRunner.RunCorrection(ctx, func(
		taskRepo repository.TaskRepository,
		docRepo repository.DocumentRepository,
		timelineRepo repository.TimelineRepository,
	) error {
		original, err := taskRepo.GetByID(taskID)
		if err != nil {
			return err
		}
		if original == nil || original.Deleted {
			return domain.ErrNotFound
		}
		if original.GroupID != groupID {
			return domain.ErrForbidden
		}
		// Una tarea ya rectificada es inmutable y ya tiene sucesora.
		if original.Status == entity.TaskStatusRectified {
			return domain.ErrTaskRectified
		}

		successor = buildSuccessor(original, newDeadline, now)
		// Guarda defensiva contra auto-referencia en la cadena.
		if *successor.TaskCorrected == successor.ID {
			return fmt.Errorf("%w: la sucesora no puede rectificarse a sí misma", domain.ErrConflict)
		}
		if err := taskRepo.Create(successor); err != nil {
			return err
		}

		original.Status = entity.TaskStatusRectified
		original.UpdatedAt = now
		if err := taskRepo.Update(original); err != nil {
			return err
		}

		docs, err := docRepo.ListByTask(original.ID)
		if err != nil {
			return fmt.Errorf("leer documentos de %s: %w", original.ID, err)
		}
		if len(docs) > 0 {
			clones := make([]*entity.Document, 0, len(docs))
			for _, d := range docs {
				clone := d.CloneForCorrection(successor.ID, now)
				clone.ID = uuid.New().String()
				clones = append(clones, clone)
			}
			if err := docRepo.CreateBatch(clones); err != nil {
				return fmt.Errorf("clonar documentos de %s: %w", original.ID, err)
			}
		}

		user := &userID
		if userID == "" {
			user = nil
		}
		if err := timelineRepo.Append(&entity.TimelineEntry{
			ID:        uuid.New().String(),
			TaskID:    original.ID,
			UserID:    user,
			Event:     entity.TimelineTaskRectified,
			Detail:    fmt.Sprintf("rectificada por la tarea %s", successor.ID),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return timelineRepo.Append(&entity.TimelineEntry{
			ID:        uuid.New().String(),
			TaskID:    successor.ID,
			UserID:    user,
			Event:     entity.TimelineCreatedTask,
			Detail:    fmt.Sprintf("creada como rectificación de %s", original.ID),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return successor, nil
}

// buildSuccessor copia de la original los campos que definen la obligación
// (título, causa y versión fijada, empresa, grupo, responsable, competencia
// y campos dinámicos) y arranca en limpio: estado new, avance cero, nueva
// fecha límite y enlace a la predecesora.
func buildSuccessor(original *entity.Task, newDeadline, now time.Time) *entity.Task {
	originalID := original.ID
	return &entity.Task{
		ID:              uuid.New().String(),
		GroupID:         original.GroupID,
		CompanyID:       original.CompanyID,
		Title:           original.Title,
		Description:     original.Description,
		Competency:      original.Competency,
		Deadline:        dateOnly(newDeadline),
		Status:          entity.TaskStatusNew,
		CauseID:         original.CauseID,
		CauseVersion:    original.CauseVersion,
		TaskCorrected:   &originalID,
		Responsible:     original.Responsible,
		Percent:         decimal.Zero,
		DynamicFields:   original.DynamicFields.Clone(),
		FlowchartFields: original.FlowchartFields.Clone(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
