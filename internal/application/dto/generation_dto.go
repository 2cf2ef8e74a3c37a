package dto

// PreviewRequest consulta de vista previa de generación: qué tareas se
// crearían para la obligación en el rango de fechas, sin efectos.
type PreviewRequest struct {
	ObligationID string   `json:"obligation_id"`
	CompanyIDs   []string `json:"company_ids"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD
}

// PlanEntryResponse una celda del plan (empresa x competencia).
type PlanEntryResponse struct {
	CompanyID      string `json:"company_id"`
	CompanyName    string `json:"company_name"`
	Competency     string `json:"competency"`
	Deadline       string `json:"deadline"` // YYYY-MM-DD
	AlreadyExists  bool   `json:"already_exists"`
	ExistingTaskID string `json:"existing_task_id,omitempty"`
}

// PreviewResponse plan calculado sin materializar.
type PreviewResponse struct {
	Preview       []PlanEntryResponse `json:"preview"`
	Competencies  []string            `json:"competencies"`
	TotalNew      int                 `json:"total_new"`
	TotalExisting int                 `json:"total_existing"`
}

// GenerateRequest generación interactiva: competencias explícitas (no rango)
// para que el caller apunte a períodos concretos.
type GenerateRequest struct {
	ObligationID      string   `json:"obligation_id"`
	CompanyIDs        []string `json:"company_ids"`
	Competencies      []string `json:"competencies"`
	ResponsibleUserID string   `json:"responsible_user_id,omitempty"`
}

// GenerateResponse tareas materializadas en el commit.
type GenerateResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ObligationErrorResponse fallo aislado de una obligación en el lote automático.
type ObligationErrorResponse struct {
	ObligationID string `json:"obligation_id"`
	Message      string `json:"message"`
}

// AutomaticRunResponse resultado del lote de generación automática.
type AutomaticRunResponse struct {
	Processed    int                       `json:"processed"`
	TasksCreated int                       `json:"tasks_created"`
	Errors       []ObligationErrorResponse `json:"errors"`
}
