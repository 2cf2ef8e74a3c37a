package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
	"github.com/jhoicas/Obligaciones-api/pkg/logger"
)

// Scheduler ejecuta la generación automática de tareas según un spec cron
// estándar de 5 campos (por defecto a las 02:00 de cada día).
type Scheduler struct {
	cron *cron.Cron
	uc   *generation.AutomaticGenerationUseCase
	log  *logger.Logger
}

// New construye el planificador sin arrancarlo.
func New(uc *generation.AutomaticGenerationUseCase, log *logger.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), uc: uc, log: log}
}

// Start registra el job y arranca el cron en segundo plano.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", spec).Msg("Cron de generación automática arrancado")
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	start := time.Now()
	resp, err := s.uc.Run(context.Background(), start)
	if err != nil {
		s.log.Error().Err(err).Msg("Generación automática abortada")
		return
	}
	s.log.Info().
		Int("processed", resp.Processed).
		Int("tasks_created", resp.TasksCreated).
		Int("errors", len(resp.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("Generación automática completada")
	for _, e := range resp.Errors {
		s.log.Warn().
			Str("obligation_id", e.ObligationID).
			Str("error", e.Message).
			Msg("Obligación con fallo en la generación automática")
	}
}
