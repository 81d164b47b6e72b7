package repository

import (
	"context"

	"github.com/boxtick/backend/domain"
)

// UserRepository is the read-only user directory. Credential checks
// happen in the service against the stored hash.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
