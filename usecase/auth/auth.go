// Package auth implements the authentication service: request-signature
// verification, replay protection and the login-session lifecycle.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/pkg/timeguard"
	"github.com/boxtick/backend/repository"
)

// AuditRecorder receives authentication outcomes. Recording must never
// block or fail the request path.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, domain.AuditEvent) {}

// Service answers three questions: is this request authentic, is this
// session still valid, and start/stop a session for a user on a client.
// It holds no mutable state across requests; the session store is the
// only shared resource.
type Service struct {
	clients  repository.ClientRepository
	users    repository.UserRepository
	sessions repository.SessionRepository
	guard    *timeguard.Guard
	audit    AuditRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithAudit attaches an audit recorder.
func WithAudit(audit AuditRecorder) Option {
	return func(s *Service) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New wires the service with its collaborators. All dependencies are
// injected here; nothing is resolved from ambient state at call time.
func New(clients repository.ClientRepository, users repository.UserRepository, sessions repository.SessionRepository, guard *timeguard.Guard, logger *zap.Logger, opts ...Option) *Service {
	if guard == nil {
		guard = timeguard.New(timeguard.DefaultWindow)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		clients:  clients,
		users:    users,
		sessions: sessions,
		guard:    guard,
		audit:    noopAudit{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClientStatus reports active, inactive or unknown for a sysName or a
// numeric client id. Unknown identifiers are an answer, not an error.
func (s *Service) ClientStatus(ctx context.Context, sysNameOrID string) (string, error) {
	var (
		client *domain.Client
		err    error
	)
	if id, convErr := strconv.ParseInt(sysNameOrID, 10, 64); convErr == nil {
		client, err = s.clients.GetByID(ctx, id)
	} else {
		client, err = s.clients.GetBySysName(ctx, sysNameOrID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return domain.ClientUnknown, nil
		}
		return "", err
	}
	return client.Status, nil
}

// resolveClient maps a sysName to its registered, active client.
// Unknown and inactive clients collapse into the same refusal so the
// caller cannot probe the registry; storage failures pass through.
func (s *Service) resolveClient(ctx context.Context, sysName string) (*domain.Client, error) {
	client, err := s.clients.GetBySysName(ctx, sysName)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrSysNameBad
		}
		return nil, err
	}
	if !client.IsActive() {
		return nil, domain.ErrSysNameBad
	}
	return client, nil
}
