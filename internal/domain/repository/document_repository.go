package repository

import "github.com/jhoicas/Obligaciones-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para Document y firmas.
type DocumentRepository interface {
	CreateBatch(docs []*entity.Document) error
	ListByTask(taskID string) ([]*entity.Document, error)
	CreateSignatures(sigs []*entity.ApproverSignature) error
}
