package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.TimelineRepository = (*TimelineRepo)(nil)

// TimelineRepo implementación de TimelineRepository (usable con pool o tx).
type TimelineRepo struct {
	q Querier
}

// NewTimelineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimelineRepository(q Querier) *TimelineRepo {
	return &TimelineRepo{q: q}
}

// Append inserta una entrada de bitácora (append-only, nunca se edita).
func (r *TimelineRepo) Append(e *entity.TimelineEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO task_timeline (id, task_id, user_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TaskID, e.UserID, e.Event, nullIfEmpty(e.Detail), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert timeline entry: %w", err)
	}
	return nil
}
