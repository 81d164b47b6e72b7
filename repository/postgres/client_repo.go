package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/repository"
)

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates a Postgres-backed client directory.
func NewClientRepository(pool *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) GetBySysName(ctx context.Context, sysName string) (*domain.Client, error) {
	const query = `
		SELECT id, sys_name, secret, status, created_at
		FROM clients
		WHERE sys_name = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, sysName))
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	const query = `
		SELECT id, sys_name, secret, status, created_at
		FROM clients
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *clientRepository) scanOne(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(&client.ID, &client.SysName, &client.Secret, &client.Status, &client.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}
