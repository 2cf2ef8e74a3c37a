package generation

import (
	"context"

	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// TxRunner ejecuta el ciclo plan -> materialización dentro de una sola
// transacción de BD, pasando repositorios atados a esa tx. La verificación
// de existencia y la creación deben ver el mismo snapshot: dos corridas
// concurrentes no pueden insertar ambas la misma (obligación, empresa,
// competencia).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		taskRepo repository.TaskRepository,
		docRepo repository.DocumentRepository,
		typeRepo repository.DocumentTypeRepository,
		timelineRepo repository.TimelineRepository,
	) error) error
}
