package repository

import (
	"context"

	"github.com/boxtick/backend/domain"
)

// ClientRepository is the read-only client directory. Rows are
// provisioned out of band.
type ClientRepository interface {
	GetBySysName(ctx context.Context, sysName string) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}
