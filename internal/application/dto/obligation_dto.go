package dto

import "time"

// DocumentTypeRequest un entregable de la plantilla de la obligación.
type DocumentTypeRequest struct {
	Name             string `json:"name"`
	IsObligatory     bool   `json:"is_obligatory"`
	EstimatedDays    int    `json:"estimated_days"`
	RequiredFile     bool   `json:"required_file"`
	ApprovalRequired string `json:"approval_required"` // none|sequential|parallel
	DisplayOrder     int    `json:"display_order"`
	ApproverUserIDs  []string `json:"approver_user_ids,omitempty"` // en orden de secuencia
}

// CreateObligationRequest alta de obligación con su plantilla versión 1.
type CreateObligationRequest struct {
	Name                   string                `json:"name"`
	Description            string                `json:"description,omitempty"`
	Frequency              string                `json:"frequency"` // monthly|quarterly|yearly
	DayDeadline            int                   `json:"day_deadline"`
	MonthDeadline          int                   `json:"month_deadline,omitempty"`
	PeriodMonths           int                   `json:"period_months,omitempty"`
	InitialGenerationDate  string                `json:"initial_generation_date"`          // YYYY-MM-DD
	FinalGenerationDate    string                `json:"final_generation_date,omitempty"`  // YYYY-MM-DD, vacío = abierta
	MonthsAdvanced         int                   `json:"months_advanced"`
	GenerateAutomaticTasks bool                  `json:"generate_automatic_tasks"`
	DocumentTypes          []DocumentTypeRequest `json:"document_types"`
}

// UpdateTemplateRequest reemplazo de la plantilla de documentos: sube la
// versión de la obligación y escribe los tipos nuevos con esa versión.
type UpdateTemplateRequest struct {
	DocumentTypes []DocumentTypeRequest `json:"document_types"`
}

// ObligationResponse obligación para respuestas HTTP.
type ObligationResponse struct {
	ID                     string     `json:"id"`
	GroupID                string     `json:"group_id"`
	Name                   string     `json:"name"`
	Description            string     `json:"description,omitempty"`
	Frequency              string     `json:"frequency"`
	DayDeadline            int        `json:"day_deadline"`
	MonthDeadline          int        `json:"month_deadline,omitempty"`
	PeriodMonths           int        `json:"period_months,omitempty"`
	InitialGenerationDate  string     `json:"initial_generation_date"`
	FinalGenerationDate    *string    `json:"final_generation_date,omitempty"`
	MonthsAdvanced         int        `json:"months_advanced"`
	GenerateAutomaticTasks bool       `json:"generate_automatic_tasks"`
	Version                int        `json:"version"`
	LastCompetence         string     `json:"last_competence,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// CreateCompanyRequest alta de empresa dentro del grupo.
type CreateCompanyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
}

// CompanyResponse empresa para respuestas HTTP.
type CompanyResponse struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Status  string `json:"status"`
}
