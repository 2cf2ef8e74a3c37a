package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// TimelineRepository define el puerto para la bitácora append-only de tareas.
type TimelineRepository interface {
	Append(e *entity.TimelineEntry) error
}
