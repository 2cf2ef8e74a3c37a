package entity

import "time"

// Estados de un documento.
const (
	DocumentStatusUnstarted = "unstarted"
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusApproved  = "approved"
	DocumentStatusRejected  = "rejected"
	DocumentStatusFinished  = "finished"
)

// Document un entregable concreto bajo una tarea, creado desde el snapshot
// de un DocumentType en el momento de la generación. Los campos de plantilla
// (IsObligatory, EstimatedDays, RequiredFile, ApprovalRequired, DisplayOrder)
// se copian tal cual y no cambian aunque la obligación se edite después;
// los campos mutables (Status, DocumentPath, fechas) evolucionan aparte.
type Document struct {
	ID             string
	TaskID         string
	DocumentTypeID string

	Name             string
	IsObligatory     bool
	EstimatedDays    int
	RequiredFile     bool
	ApprovalRequired string
	DisplayOrder     int

	Status       string // ver constantes DocumentStatus*
	DocumentPath string
	UploadedAt   *time.Time
	ApprovedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CloneForCorrection clona el documento para la tarea sucesora de una
// rectificación: copia solo los campos de plantilla; el estado de carga,
// las aprobaciones y los archivos NO se arrastran.
func (d *Document) CloneForCorrection(newTaskID string, now time.Time) *Document {
	return &Document{
		TaskID:           newTaskID,
		DocumentTypeID:   d.DocumentTypeID,
		Name:             d.Name,
		IsObligatory:     d.IsObligatory,
		EstimatedDays:    d.EstimatedDays,
		RequiredFile:     d.RequiredFile,
		ApprovalRequired: d.ApprovalRequired,
		DisplayOrder:     d.DisplayOrder,
		Status:           DocumentStatusUnstarted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Estados de firma de aprobador.
const (
	SignatureStatusPending  = "pending"
	SignatureStatusSigned   = "signed"
	SignatureStatusRejected = "rejected"
)

// ApproverSignature una firma pendiente/realizada por (documento, aprobador).
// Se crea al generar el documento cuando su tipo exige aprobación; el flujo
// de firma en sí es externo al motor de generación.
type ApproverSignature struct {
	ID         string
	DocumentID string
	UserID     string
	Sequence   int
	Status     string // ver constantes SignatureStatus*
	SignedAt   *time.Time
	CreatedAt  time.Time
}
