package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/internal/infrastructure/spool"
	"github.com/boxtick/backend/usecase/auth"
)

// AuditTrail adapts the processor to the authentication service's
// recorder port. Recording is best effort and never fails a request.
type AuditTrail struct {
	processor *AuditProcessor
	logger    *zap.Logger
}

func NewAuditTrail(processor *AuditProcessor, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditTrail{processor: processor, logger: logger}
}

func (t *AuditTrail) Record(ctx context.Context, event domain.AuditEvent) {
	if t == nil || t.processor == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := t.processor.Deliver(ctx, spool.Entry{Event: event}); err != nil {
		t.logger.Warn("audit event lost",
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

var _ auth.AuditRecorder = (*AuditTrail)(nil)
