package auth

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/boxtick/backend/domain"
)

// StartSession verifies the user's credentials and returns a session
// token for the (client, user) pair. A failed credential check is an
// expected outcome and yields the zero token with a nil error. Within
// the session TTL a re-login returns the existing token unchanged.
func (s *Service) StartSession(ctx context.Context, username, password, sysName string) (domain.Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordDenied(ctx, sysName, username, "unknown user")
			return domain.Token{}, nil
		}
		return domain.Token{}, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		s.recordDenied(ctx, sysName, username, "bad password")
		return domain.Token{}, nil
	}

	client, err := s.resolveClient(ctx, sysName)
	if err != nil {
		return domain.Token{}, err
	}

	if existing, err := s.findSession(ctx, client.ID, user.ID); err != nil {
		return domain.Token{}, err
	} else if existing != nil {
		s.recordGranted(ctx, sysName, user, "session reused")
		return existing.Token, nil
	}

	session := domain.NewSession(client.ID, user.ID, s.now())
	stored, err := s.sessions.Create(ctx, session)
	if err != nil {
		s.logger.Error("session creation not confirmed",
			zap.String("sys_name", sysName),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return domain.Token{}, err
	}

	s.recordGranted(ctx, sysName, user, "session created")
	return stored.Token, nil
}

// findSession returns the live session for the pair, or nil. An expired
// row is deleted on the way out so it never lingers for later queries.
func (s *Service) findSession(ctx context.Context, clientID, userID int64) (*domain.Session, error) {
	session, err := s.sessions.FindByPair(ctx, clientID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.IsExpired(s.now()) {
		if err := s.sessions.DeleteByPair(ctx, clientID, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return session, nil
}

// DestroySession deletes the session identified by the token, provided
// it belongs to the named client. The count of removed rows comes back;
// zero is not an error.
func (s *Service) DestroySession(ctx context.Context, tokenHex, sysName string) (int64, error) {
	token, err := domain.ParseToken(tokenHex)
	if err != nil {
		return 0, nil
	}
	client, err := s.clients.GetBySysName(ctx, sysName)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return 0, nil
		}
		return 0, err
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if session.ClientID != client.ID {
		return 0, nil
	}

	removed, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.audit.Record(ctx, domain.AuditEvent{
			Action:  domain.AuditSessionDestroyed,
			SysName: sysName,
			UserID:  session.UserID,
		})
	}
	return removed, nil
}

// ValidateSession reports whether an unexpired session with this token
// exists and is bound to the client presenting it. A token leaked to
// another client fails here even though the row exists.
func (s *Service) ValidateSession(ctx context.Context, tokenHex, sysName string) (bool, error) {
	session, client, err := s.sessionForClient(ctx, tokenHex, sysName)
	if err != nil || session == nil {
		return false, err
	}
	return session.ClientID == client.ID, nil
}

// SessionUser resolves the session to the numeric user id (wantUserID)
// or the username. Empty inputs or no match yield the empty string.
func (s *Service) SessionUser(ctx context.Context, tokenHex, sysName string, wantUserID bool) (string, error) {
	if tokenHex == "" || sysName == "" {
		return "", nil
	}
	session, client, err := s.sessionForClient(ctx, tokenHex, sysName)
	if err != nil || session == nil || session.ClientID != client.ID {
		return "", err
	}
	if wantUserID {
		return strconv.FormatInt(session.UserID, 10), nil
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Username, nil
}

// sessionForClient looks up the token and the client together, purging
// an expired row on access. A nil session with a nil error means "no
// valid match"; real storage failures pass through.
func (s *Service) sessionForClient(ctx context.Context, tokenHex, sysName string) (*domain.Session, *domain.Client, error) {
	token, err := domain.ParseToken(tokenHex)
	if err != nil {
		return nil, nil, nil
	}
	client, err := s.clients.GetBySysName(ctx, sysName)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if session.IsExpired(s.now()) {
		if _, err := s.sessions.Delete(ctx, token); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	return session, client, nil
}

func (s *Service) recordGranted(ctx context.Context, sysName string, user *domain.User, detail string) {
	s.audit.Record(ctx, domain.AuditEvent{
		Action:   domain.AuditLoginGranted,
		SysName:  sysName,
		Username: user.Username,
		UserID:   user.ID,
		Detail:   detail,
	})
}

func (s *Service) recordDenied(ctx context.Context, sysName, username, detail string) {
	s.audit.Record(ctx, domain.AuditEvent{
		Action:   domain.AuditLoginDenied,
		SysName:  sysName,
		Username: username,
		Detail:   detail,
	})
}
