package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/repository"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates a Postgres-backed audit trail.
func NewAuditRepository(pool *pgxpool.Pool) repository.AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	if event.ID == "" || event.Action == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO audit_events (id, action, sys_name, username, user_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Action,
		nullString(event.SysName),
		nullString(event.Username),
		nullInt(event.UserID),
		nullString(event.Detail),
		nullTime(event.CreatedAt),
	)
	return err
}
