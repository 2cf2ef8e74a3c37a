package entity

import "time"

// Modos de aprobación de un documento.
const (
	ApprovalNone       = "none"
	ApprovalSequential = "sequential"
	ApprovalParallel   = "parallel"
)

// DocumentType describe un entregable (obligatorio u opcional) de la
// plantilla de una obligación para una versión concreta. Al generar tareas
// se clona como Document, copiando los campos de plantilla tal cual.
type DocumentType struct {
	ID                string
	ObligationID      string
	ObligationVersion int // versión de la obligación a la que pertenece esta fila
	Name              string
	IsObligatory      bool
	EstimatedDays     int // peso para el cálculo de porcentaje de avance
	RequiredFile      bool
	ApprovalRequired  string // ver constantes Approval*
	DisplayOrder      int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Approver aprobador configurado para un DocumentType (cuando
// ApprovalRequired != none). Sequence define el orden en modo sequential.
type Approver struct {
	ID             string
	DocumentTypeID string
	UserID         string
	Sequence       int
	CreatedAt      time.Time
}
