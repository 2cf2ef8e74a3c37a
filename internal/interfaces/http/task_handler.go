package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Obligaciones-api/internal/application/correction"
	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/application/usecase"
)

// TaskHandler consulta de tareas, cambio de estado y rectificación.
type TaskHandler struct {
	uc        *usecase.TaskUseCase
	correctUC *correction.CorrectTaskUseCase
}

// NewTaskHandler construye el handler de tareas.
func NewTaskHandler(uc *usecase.TaskUseCase, correctUC *correction.CorrectTaskUseCase) *TaskHandler {
	return &TaskHandler{uc: uc, correctUC: correctUC}
}

// List godoc
// @Summary      Listar tareas del grupo
// @Tags         tasks
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.TaskResponse
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *TaskHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListTasks(c.Context(), GetGroupID(c), page)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Consultar tarea con sus documentos
// @Tags         tasks
// @Produce      json
// @Param        id  path  string  true  "task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id} [get]
// @Security     BearerAuth
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, docs, err := h.uc.GetTask(c.Context(), GetGroupID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"task": task, "documents": docs})
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una tarea
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "task ID"
// @Param        body  body  dto.UpdateTaskStatusRequest  true  "status"
// @Success      200   {object}  dto.TaskResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/status [put]
// @Security     BearerAuth
func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateStatus(c.Context(), GetGroupID(c), c.Params("id"), GetUserID(c), in.Status, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Correct godoc
// @Summary      Rectificar tarea (crea sucesora enlazada)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "task ID"
// @Param        body  body  dto.CorrectTaskRequest  true  "new_deadline YYYY-MM-DD"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/correct [post]
// @Security     BearerAuth
func (h *TaskHandler) Correct(c *fiber.Ctx) error {
	var in dto.CorrectTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	newDeadline, err := time.Parse("2006-01-02", in.NewDeadline)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_deadline debe ser YYYY-MM-DD"})
	}
	successor, err := h.correctUC.Correct(c.Context(), GetGroupID(c), c.Params("id"), GetUserID(c), newDeadline, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	out := dto.ToTaskResponse(successor)
	return c.Status(fiber.StatusCreated).JSON(out)
}
