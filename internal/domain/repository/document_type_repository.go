package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// DocumentTypeRepository define el puerto para la plantilla de documentos.
type DocumentTypeRepository interface {
	// ListActive devuelve los tipos activos de la obligación para una
	// versión concreta (la fijada en la tarea), ordenados por DisplayOrder.
	ListActive(obligationID string, version int) ([]*entity.DocumentType, error)
	ListApprovers(documentTypeID string) ([]*entity.Approver, error)
	CreateBatch(types []*entity.DocumentType) error
}
