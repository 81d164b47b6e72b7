package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/repository"
)

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository instantiates a Postgres-backed session store.
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) FindByPair(ctx context.Context, clientID, userID int64) (*domain.Session, error) {
	const query = `
		SELECT token, client_id, user_id, created_at, expire_time
		FROM sessions
		WHERE client_id = $1 AND user_id = $2
	`
	return scanSession(r.pool.QueryRow(ctx, query, clientID, userID))
}

func (r *sessionRepository) GetByToken(ctx context.Context, token domain.Token) (*domain.Session, error) {
	const query = `
		SELECT token, client_id, user_id, created_at, expire_time
		FROM sessions
		WHERE token = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, token[:]))
}

// Create inserts the session unless a row for the pair already exists.
// The unique (client_id, user_id) index makes the check-then-insert a
// single atomic statement: an expired row is replaced in place, a live
// row wins the conflict and is read back unchanged.
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if session == nil || session.Token.IsZero() {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO sessions (token, client_id, user_id, created_at, expire_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id, user_id) DO UPDATE
		SET token = EXCLUDED.token,
			created_at = EXCLUDED.created_at,
			expire_time = EXCLUDED.expire_time
		WHERE sessions.expire_time <= NOW()
		RETURNING token, client_id, user_id, created_at, expire_time
	`

	stored, err := scanSession(r.pool.QueryRow(ctx, query,
		session.Token[:],
		session.ClientID,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	// Conflict with a live session: the winner's row must be readable,
	// otherwise the write cannot be confirmed at all.
	stored, err = r.FindByPair(ctx, session.ClientID, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionFailure
		}
		return nil, err
	}
	return stored, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token domain.Token) (int64, error) {
	const query = `DELETE FROM sessions WHERE token = $1`
	tag, err := r.pool.Exec(ctx, query, token[:])
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionRepository) DeleteByPair(ctx context.Context, clientID, userID int64) error {
	const query = `DELETE FROM sessions WHERE client_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, clientID, userID)
	return err
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var session domain.Session
	var token []byte
	if err := row.Scan(&token, &session.ClientID, &session.UserID, &session.CreatedAt, &session.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if len(token) != domain.TokenSize {
		return nil, domain.ErrInvalidPayload
	}
	copy(session.Token[:], token)
	return &session, nil
}
