package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Obligaciones-api/internal/application/auth"
	"github.com/jhoicas/Obligaciones-api/internal/application/correction"
	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
	"github.com/jhoicas/Obligaciones-api/internal/application/usecase"
	"github.com/jhoicas/Obligaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Obligaciones-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Obligaciones-api/internal/interfaces/http"
	"github.com/jhoicas/Obligaciones-api/pkg/config"
	"github.com/jhoicas/Obligaciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	groupRepo := postgres.NewGroupRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	obligationRepo := postgres.NewObligationRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	typeRepo := postgres.NewDocumentTypeRepository(pool)
	timelineRepo := postgres.NewTimelineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, groupRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	obligationUC := usecase.NewObligationUseCase(obligationRepo, typeRepo)
	taskUC := usecase.NewTaskUseCase(taskRepo, docRepo, timelineRepo)
	correctUC := correction.NewCorrectTaskUseCase(txRunner)
	previewUC := generation.NewPreviewUseCase(obligationRepo, companyRepo, taskRepo)
	generateUC := generation.NewGenerateUseCase(txRunner, obligationRepo, companyRepo, log)
	automaticUC := generation.NewAutomaticGenerationUseCase(txRunner, obligationRepo, companyRepo, log)

	// Cron del lote automático (desactivable con CRON_ENABLED=false)
	sched := scheduler.New(automaticUC, log)
	if cfg.Cron.Enabled {
		if err := sched.Start(cfg.Cron.Spec); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.Cron.Spec).Msg("arranque del cron")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Obligaciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		ObligationUC: obligationUC,
		TaskUC:       taskUC,
		CorrectUC:    correctUC,
		PreviewUC:    previewUC,
		GenerateUC:   generateUC,
		AutomaticUC:  automaticUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	if cfg.Cron.Enabled {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
