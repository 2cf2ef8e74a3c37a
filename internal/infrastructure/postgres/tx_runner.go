package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Obligaciones-api/internal/application/correction"
	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// Ensure TxRunner implements generation.TxRunner and correction.TxRunner.
var _ generation.TxRunner = (*TxRunner)(nil)
var _ correction.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para el ciclo plan -> materialización de UNA
// obligación, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Nunca debe compartirse una transacción entre obligaciones distintas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	docRepo repository.DocumentRepository,
	typeRepo repository.DocumentTypeRepository,
	timelineRepo repository.TimelineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	taskRepo := NewTaskRepository(tx)
	docRepo := NewDocumentRepository(tx)
	typeRepo := NewDocumentTypeRepository(tx)
	timelineRepo := NewTimelineRepository(tx)

	if err := fn(taskRepo, docRepo, typeRepo, timelineRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCorrection inicia una transacción para la rectificación de una tarea.
func (r *TxRunner) RunCorrection(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	docRepo repository.DocumentRepository,
	timelineRepo repository.TimelineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	taskRepo := NewTaskRepository(tx)
	docRepo := NewDocumentRepository(tx)
	timelineRepo := NewTimelineRepository(tx)

	if err := fn(taskRepo, docRepo, timelineRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
