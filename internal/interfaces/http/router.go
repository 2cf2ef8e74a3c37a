package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Obligaciones-api/internal/application/auth"
	"github.com/jhoicas/Obligaciones-api/internal/application/correction"
	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
	"github.com/jhoicas/Obligaciones-api/internal/application/usecase"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	ObligationUC *usecase.ObligationUseCase
	TaskUC       *usecase.TaskUseCase
	CorrectUC    *correction.CorrectTaskUseCase
	PreviewUC    *generation.PreviewUseCase
	GenerateUC   *generation.GenerateUseCase
	AutomaticUC  *generation.AutomaticGenerationUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	adminOrGestor := RequireRole(entity.RoleAdmin, entity.RoleGestor)

	// Companies (protegido; alta solo admin)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", adminOnly, companyHandler.Create)

	// Obligations (protegido; escritura admin/gestor)
	obligations := protected.Group("/obligations")
	obligationHandler := NewObligationHandler(deps.ObligationUC)
	obligations.Post("/", adminOrGestor, obligationHandler.Create)
	obligations.Get("/:id", obligationHandler.Get)
	obligations.Put("/:id/template", adminOrGestor, obligationHandler.UpdateTemplate)

	// Tasks (protegido; rectificación admin/gestor)
	tasks := protected.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC, deps.CorrectUC)
	tasks.Get("/", taskHandler.List)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id/status", taskHandler.UpdateStatus)
	tasks.Post("/:id/correct", adminOrGestor, taskHandler.Correct)

	// Generation (protegido; lote manual solo admin)
	gen := protected.Group("/generation")
	generationHandler := NewGenerationHandler(deps.PreviewUC, deps.GenerateUC, deps.AutomaticUC)
	gen.Post("/preview", adminOrGestor, generationHandler.Preview)
	gen.Post("/generate", adminOrGestor, generationHandler.Generate)
	gen.Post("/run-automatic", adminOnly, generationHandler.RunAutomatic)
}
