package repository

import (
	"context"

	"github.com/boxtick/backend/domain"
)

// AuditRepository appends authentication outcomes to durable storage.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}
