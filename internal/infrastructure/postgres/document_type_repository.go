package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.DocumentTypeRepository = (*DocumentTypeRepo)(nil)

// DocumentTypeRepo implementación de DocumentTypeRepository (usable con pool o tx).
type DocumentTypeRepo struct {
	q Querier
}

// NewDocumentTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentTypeRepository(q Querier) *DocumentTypeRepo {
	return &DocumentTypeRepo{q: q}
}

// ListActive devuelve los tipos activos de la obligación filtrados a la
// versión fijada, ordenados por display_order.
func (r *DocumentTypeRepo) ListActive(obligationID string, version int) ([]*entity.DocumentType, error) {
	query := `
		SELECT id, obligation_id, obligation_version, name, is_obligatory,
		       estimated_days, required_file, approval_required, display_order,
		       active, created_at, updated_at
		FROM document_types
		WHERE obligation_id = $1 AND obligation_version = $2 AND active = true
		ORDER BY display_order, name`
	rows, err := r.q.Query(context.Background(), query, obligationID, version)
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentType
	for rows.Next() {
		var dt entity.DocumentType
		if err := rows.Scan(
			&dt.ID, &dt.ObligationID, &dt.ObligationVersion, &dt.Name,
			&dt.IsObligatory, &dt.EstimatedDays, &dt.RequiredFile,
			&dt.ApprovalRequired, &dt.DisplayOrder, &dt.Active,
			&dt.CreatedAt, &dt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		list = append(list, &dt)
	}
	return list, rows.Err()
}

// ListApprovers devuelve los aprobadores del tipo en orden de secuencia.
func (r *DocumentTypeRepo) ListApprovers(documentTypeID string) ([]*entity.Approver, error) {
	query := `
		SELECT id, document_type_id, user_id, sequence, created_at
		FROM approvers
		WHERE document_type_id = $1
		ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, documentTypeID)
	if err != nil {
		return nil, fmt.Errorf("list approvers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Approver
	for rows.Next() {
		var a entity.Approver
		if err := rows.Scan(&a.ID, &a.DocumentTypeID, &a.UserID, &a.Sequence, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approver: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CreateBatch inserta los tipos de una versión nueva de la plantilla.
func (r *DocumentTypeRepo) CreateBatch(types []*entity.DocumentType) error {
	for _, dt := range types {
		if dt.ID == "" {
			dt.ID = uuid.New().String()
		}
		query := `
			INSERT INTO document_types (id, obligation_id, obligation_version, name,
				is_obligatory, estimated_days, required_file, approval_required,
				display_order, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		_, err := r.q.Exec(context.Background(), query,
			dt.ID, dt.ObligationID, dt.ObligationVersion, dt.Name,
			dt.IsObligatory, dt.EstimatedDays, dt.RequiredFile, dt.ApprovalRequired,
			dt.DisplayOrder, dt.Active, dt.CreatedAt, dt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert document type: %w", err)
		}
	}
	return nil
}
