package repository

import (
	"context"

	"github.com/boxtick/backend/domain"
)

// SessionRepository persists session rows. Implementations return rows
// as stored, expired or not; the service owns the lazy-expiry decision.
// Create must be an atomic insert-if-absent on the (client, user) pair:
// when a live session already exists the stored (winner's) row comes
// back unchanged, and an expired row is replaced in the same step.
type SessionRepository interface {
	FindByPair(ctx context.Context, clientID, userID int64) (*domain.Session, error)
	GetByToken(ctx context.Context, token domain.Token) (*domain.Session, error)
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	Delete(ctx context.Context, token domain.Token) (int64, error)
	DeleteByPair(ctx context.Context, clientID, userID int64) error
}
