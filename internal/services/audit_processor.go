package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/boxtick/backend/internal/infrastructure/spool"
	"github.com/boxtick/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how the audit spool is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// AuditProcessor moves spooled audit events into durable storage once
// the database is reachable again.
type AuditProcessor struct {
	store  *spool.Store
	health ConnectionHealth
	audits repository.AuditRepository
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ProcessorConfig
}

func NewAuditProcessor(
	store *spool.Store,
	health ConnectionHealth,
	audits repository.AuditRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *AuditProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ap := &AuditProcessor{
		store:  store,
		health: health,
		audits: audits,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = ap.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := ap.Drain(ctx); err != nil {
			ap.logger.Error("audit drain failed", zap.Error(err))
		}
		if ap.cfg.Retention > 0 {
			if err := ap.store.Cleanup(time.Now().Add(-ap.cfg.Retention)); err != nil {
				ap.logger.Warn("audit spool cleanup failed", zap.Error(err))
			}
		}
	})

	return ap
}

// Start launches the cron scheduler.
func (ap *AuditProcessor) Start() {
	if ap == nil || ap.cron == nil {
		return
	}
	ap.cron.Start()
	ap.logger.Info("audit processor started")
}

// Stop gracefully stops the scheduler.
func (ap *AuditProcessor) Stop(ctx context.Context) {
	if ap == nil || ap.cron == nil {
		return
	}
	stopCtx := ap.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ap.logger.Info("audit processor stopped")
}

// Drain delivers spooled entries synchronously, oldest first.
func (ap *AuditProcessor) Drain(ctx context.Context) error {
	if ap == nil || ap.store == nil {
		return nil
	}
	if ap.health != nil && !ap.health.IsOnline() {
		ap.logger.Debug("skipping audit drain (offline)")
		return nil
	}

	entries, err := ap.store.GetBatch(ap.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ap.audits.Insert(ctx, entry.Event); err != nil {
			ap.logger.Error("failed to deliver audit event",
				zap.String("event_id", entry.Event.ID),
				zap.String("action", entry.Event.Action),
				zap.Error(err))

			if entry.Retries+1 >= ap.cfg.MaxRetries {
				ap.logger.Warn("dropping audit event (max retries reached)", zap.String("event_id", entry.Event.ID))
				_ = ap.store.Remove(entry)
				continue
			}
			if err := ap.store.Requeue(entry); err != nil {
				ap.logger.Error("failed to requeue audit event", zap.Error(err))
			}
			continue
		}

		if err := ap.store.Remove(entry); err != nil {
			ap.logger.Warn("failed to purge delivered audit event", zap.Error(err))
		}
	}
	return nil
}

// Deliver writes the event straight through when the database is online
// and spools it otherwise. Inserts are idempotent on event id, so an
// event that was written but not confirmed cannot duplicate.
func (ap *AuditProcessor) Deliver(ctx context.Context, entry spool.Entry) error {
	if ap == nil || ap.store == nil {
		return fmt.Errorf("audit processor not configured")
	}

	if ap.health == nil || ap.health.IsOnline() {
		if err := ap.audits.Insert(ctx, entry.Event); err == nil {
			return nil
		} else {
			ap.logger.Warn("immediate audit insert failed, spooling", zap.Error(err))
		}
	}
	return ap.store.Enqueue(entry)
}

// Size returns the number of spooled events.
func (ap *AuditProcessor) Size() int {
	if ap == nil || ap.store == nil {
		return 0
	}
	size, err := ap.store.Size()
	if err != nil {
		return 0
	}
	return size
}
