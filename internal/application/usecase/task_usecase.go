package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// TaskUseCase operaciones de consulta y cambio de estado sobre tareas.
// El guard de inmutabilidad de tareas rectificadas vive aquí, en el camino
// genérico de actualización, no solo en el motor de rectificación.
type TaskUseCase struct {
	taskRepo     repository.TaskRepository
	docRepo      repository.DocumentRepository
	timelineRepo repository.TimelineRepository
}

// NewTaskUseCase construye el caso de uso de tareas.
func NewTaskUseCase(taskRepo repository.TaskRepository, docRepo repository.DocumentRepository, timelineRepo repository.TimelineRepository) *TaskUseCase {
	return &TaskUseCase{taskRepo: taskRepo, docRepo: docRepo, timelineRepo: timelineRepo}
}

// GetTask devuelve la tarea con sus documentos.
func (uc *TaskUseCase) GetTask(ctx context.Context, groupID, taskID string) (*dto.TaskResponse, []dto.DocumentResponse, error) {
	task, err := uc.loadGroupTask(groupID, taskID)
	if err != nil {
		return nil, nil, err
	}
	docs, err := uc.docRepo.ListByTask(task.ID)
	if err != nil {
		return nil, nil, err
	}
	resp := dto.ToTaskResponse(task)
	docResps := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		docResps = append(docResps, dto.ToDocumentResponse(d))
	}
	return &resp, docResps, nil
}

// ListTasks lista las tareas del grupo con paginación.
func (uc *TaskUseCase) ListTasks(ctx context.Context, groupID string, page dto.PageRequest) ([]dto.TaskResponse, error) {
	page.DefaultPage()
	tasks, err := uc.taskRepo.ListByGroup(groupID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.ToTaskResponse(t))
	}
	return out, nil
}

// UpdateStatus cambia el estado de una tarea. Una tarea rectificada rechaza
// cualquier cambio (estado terminal); rectified tampoco puede asignarse por
// aquí, solo el motor de rectificación lo hace. Al marcar finished o late se
// recalculan el avance y los días de atraso.
func (uc *TaskUseCase) UpdateStatus(ctx context.Context, groupID, taskID, userID, newStatus string, now time.Time) (*dto.TaskResponse, error) {
	if !entity.ValidTaskStatus(newStatus) || newStatus == entity.TaskStatusRectified {
		return nil, domain.ErrInvalidInput
	}
	task, err := uc.loadGroupTask(groupID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == entity.TaskStatusRectified {
		return nil, domain.ErrTaskRectified
	}

	previous := task.Status
	task.Status = newStatus
	task.DelayedDays = DelayedDays(task.Deadline, now)
	task.UpdatedAt = now

	docs, err := uc.docRepo.ListByTask(task.ID)
	if err != nil {
		return nil, err
	}
	task.Percent = ProgressPercent(docs)
	if newStatus == entity.TaskStatusFinished {
		task.Percent = decimal.NewFromInt(100)
	}

	if err := uc.taskRepo.Update(task); err != nil {
		return nil, err
	}

	var user *string
	if userID != "" {
		user = &userID
	}
	if err := uc.timelineRepo.Append(&entity.TimelineEntry{
		ID:        uuid.New().String(),
		TaskID:    task.ID,
		UserID:    user,
		Event:     entity.TimelineStatusChanged,
		Detail:    previous + " -> " + newStatus,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	resp := dto.ToTaskResponse(task)
	return &resp, nil
}

func (uc *TaskUseCase) loadGroupTask(groupID, taskID string) (*entity.Task, error) {
	if taskID == "" {
		return nil, domain.ErrInvalidInput
	}
	task, err := uc.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.Deleted {
		return nil, domain.ErrNotFound
	}
	if task.GroupID != groupID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

// ProgressPercent calcula el avance 0-100 de una tarea ponderando cada
// documento por sus días estimados. Un documento cuenta cuando está
// approved o finished. Sin documentos, el avance es 0.
func ProgressPercent(docs []*entity.Document) decimal.Decimal {
	total := decimal.Zero
	done := decimal.Zero
	for _, d := range docs {
		weight := decimal.NewFromInt(int64(d.EstimatedDays))
		if weight.LessThanOrEqual(decimal.Zero) {
			weight = decimal.NewFromInt(1)
		}
		total = total.Add(weight)
		if d.Status == entity.DocumentStatusApproved || d.Status == entity.DocumentStatusFinished {
			done = done.Add(weight)
		}
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return done.Mul(decimal.NewFromInt(100)).DivRound(total, 2)
}

// DelayedDays días transcurridos después de la fecha límite; 0 si aún no vence.
func DelayedDays(deadline, now time.Time) int {
	d := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !n.After(d) {
		return 0
	}
	return int(n.Sub(d).Hours() / 24)
}
