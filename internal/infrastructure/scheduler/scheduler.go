// Package scheduler ejecuta la auditoría periódica del libro con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

const auditTimeout = 2 * time.Minute

// Auditor lo que el scheduler necesita del caso de uso de auditoría.
type Auditor interface {
	AuditAll(ctx context.Context) ([]dto.AuditReportResponse, error)
}

// Scheduler programa la auditoría del libro.
type Scheduler struct {
	cron    *cron.Cron
	auditor Auditor
	log     *logger.Logger
}

// New crea el scheduler. log nil usa un logger descartado.
func New(auditor Auditor, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(),
		auditor: auditor,
		log:     log.Component("scheduler"),
	}
}

// Start registra la auditoría con la expresión dada (ej. "@every 1h") y arranca el cron.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunAudit); err != nil {
		return fmt.Errorf("scheduler: programar auditoría %q: %w", spec, err)
	}
	s.log.Info().Str("schedule", spec).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

// RunAudit ejecuta una auditoría completa y registra los artículos inconsistentes.
// Nunca corrige datos.
func (s *Scheduler) RunAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	started := time.Now()
	drifted, err := s.auditor.AuditAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("auditoría del libro fallida")
		return
	}
	for _, d := range drifted {
		s.log.Warn().
			Str("item_id", d.ItemID).
			Int64("stored_stock", d.StoredStock).
			Int64("ledger_stock", d.LedgerStock).
			Int64("difference", d.Difference).
			Msg("stock no coincide con el libro")
	}
	s.log.Info().Int("drifted", len(drifted)).Dur("latency", time.Since(started)).Msg("auditoría del libro completada")
}
