package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// CreateBatch inserta los documentos de una tarea. Se invoca dentro de la
// transacción de generación: un fallo revierte la tarea entera.
func (r *DocumentRepo) CreateBatch(docs []*entity.Document) error {
	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		query := `
			INSERT INTO documents (id, task_id, document_type_id, name, is_obligatory,
				estimated_days, required_file, approval_required, display_order,
				status, document_path, uploaded_at, approved_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		_, err := r.q.Exec(context.Background(), query,
			d.ID, d.TaskID, d.DocumentTypeID, d.Name, d.IsObligatory,
			d.EstimatedDays, d.RequiredFile, d.ApprovalRequired, d.DisplayOrder,
			d.Status, nullIfEmpty(d.DocumentPath), d.UploadedAt, d.ApprovedAt,
			d.CreatedAt, d.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return nil
}

// ListByTask devuelve los documentos de una tarea en orden de plantilla.
func (r *DocumentRepo) ListByTask(taskID string) ([]*entity.Document, error) {
	query := `
		SELECT id, task_id, document_type_id, name, is_obligatory, estimated_days,
		       required_file, approval_required, display_order, status,
		       COALESCE(document_path, ''), uploaded_at, approved_at, created_at, updated_at
		FROM documents
		WHERE task_id = $1
		ORDER BY display_order, name`
	rows, err := r.q.Query(context.Background(), query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(
			&d.ID, &d.TaskID, &d.DocumentTypeID, &d.Name, &d.IsObligatory,
			&d.EstimatedDays, &d.RequiredFile, &d.ApprovalRequired, &d.DisplayOrder,
			&d.Status, &d.DocumentPath, &d.UploadedAt, &d.ApprovedAt,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// CreateSignatures inserta las firmas pendientes congeladas al generar.
func (r *DocumentRepo) CreateSignatures(sigs []*entity.ApproverSignature) error {
	for _, s := range sigs {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		query := `
			INSERT INTO approver_signatures (id, document_id, user_id, sequence, status, signed_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(context.Background(), query,
			s.ID, s.DocumentID, s.UserID, s.Sequence, s.Status, s.SignedAt, s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert approver signature: %w", err)
		}
	}
	return nil
}
