package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
)

// TaskResponse tarea para respuestas HTTP.
type TaskResponse struct {
	ID            string          `json:"id"`
	GroupID       string          `json:"group_id"`
	CompanyID     string          `json:"company_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Competency    string          `json:"competency"`
	Deadline      string          `json:"deadline"` // YYYY-MM-DD
	Status        string          `json:"status"`
	CauseID       string          `json:"cause_id"`
	CauseVersion  int             `json:"cause_version"`
	TaskCorrected *string         `json:"task_corrected,omitempty"`
	Responsible   *string         `json:"responsible,omitempty"`
	Percent       decimal.Decimal `json:"percent"`
	DelayedDays   int             `json:"delayed_days"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DocumentResponse documento para respuestas HTTP.
type DocumentResponse struct {
	ID               string `json:"id"`
	TaskID           string `json:"task_id"`
	Name             string `json:"name"`
	IsObligatory     bool   `json:"is_obligatory"`
	EstimatedDays    int    `json:"estimated_days"`
	RequiredFile     bool   `json:"required_file"`
	ApprovalRequired string `json:"approval_required"`
	DisplayOrder     int    `json:"display_order"`
	Status           string `json:"status"`
	DocumentPath     string `json:"document_path,omitempty"`
}

// UpdateTaskStatusRequest cambio de estado manual de una tarea.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// CorrectTaskRequest rectificación: nueva fecha límite para la tarea sucesora.
type CorrectTaskRequest struct {
	NewDeadline string `json:"new_deadline"` // YYYY-MM-DD, estrictamente futura
}

// ToTaskResponse mapea la entidad a su DTO.
func ToTaskResponse(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		GroupID:       t.GroupID,
		CompanyID:     t.CompanyID,
		Title:         t.Title,
		Description:   t.Description,
		Competency:    t.Competency,
		Deadline:      t.Deadline.Format("2006-01-02"),
		Status:        t.Status,
		CauseID:       t.CauseID,
		CauseVersion:  t.CauseVersion,
		TaskCorrected: t.TaskCorrected,
		Responsible:   t.Responsible,
		Percent:       t.Percent,
		DelayedDays:   t.DelayedDays,
		CreatedAt:     t.CreatedAt,
	}
}

// ToDocumentResponse mapea la entidad a su DTO.
func ToDocumentResponse(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID,
		TaskID:           d.TaskID,
		Name:             d.Name,
		IsObligatory:     d.IsObligatory,
		EstimatedDays:    d.EstimatedDays,
		RequiredFile:     d.RequiredFile,
		ApprovalRequired: d.ApprovalRequired,
		DisplayOrder:     d.DisplayOrder,
		Status:           d.Status,
		DocumentPath:     d.DocumentPath,
	}
}
