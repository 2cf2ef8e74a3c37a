package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tarea. Rectified es terminal: una tarea rectificada no
// admite ningún cambio de estado posterior.
const (
	TaskStatusNew       = "new"
	TaskStatusPending   = "pending"
	TaskStatusLate      = "late"
	TaskStatusFinished  = "finished"
	TaskStatusRectified = "rectified"
)

// Task una instancia de obligación para una empresa en una competencia.
// Invariante: a lo sumo una tarea viva (Deleted=false) por
// (CauseID, CompanyID, Competency); las tareas de rectificación comparten
// competencia con su predecesora por diseño.
type Task struct {
	ID          string
	GroupID     string
	CompanyID   string
	Title       string
	Description string

	// Competency etiqueta del período: "2025-01", "1T/2025" o "2025".
	Competency string
	Deadline   time.Time
	Status     string // ver constantes TaskStatus*

	// CauseID + CauseVersion fijan la obligación y la versión de plantilla
	// vigentes al crear la tarea. Nunca se deref la versión actual de la
	// obligación para leer los documentos de una tarea ya generada.
	CauseID      string
	CauseVersion int

	// TaskCorrected apunta a la tarea que esta rectifica (cadena enlazada
	// hijo -> padre). nil si no es una rectificación.
	TaskCorrected *string

	Responsible *string // user_id responsable, opcional

	Percent     decimal.Decimal // avance 0-100
	DelayedDays int

	DynamicFields   FieldMap
	FlowchartFields FieldMap

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidTaskStatus indica si s es un estado de tarea conocido.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusNew, TaskStatusPending, TaskStatusLate, TaskStatusFinished, TaskStatusRectified:
		return true
	}
	return false
}

// TimelineEntry entrada de auditoría append-only asociada a una tarea.
type TimelineEntry struct {
	ID        string
	TaskID    string
	UserID    *string // nil cuando el evento lo produce el cron
	Event     string  // ver constantes Timeline*
	Detail    string
	CreatedAt time.Time
}

// Eventos de timeline.
const (
	TimelineCreatedTask   = "created_task"
	TimelineTaskRectified = "task_rectified"
	TimelineStatusChanged = "status_changed"
)
