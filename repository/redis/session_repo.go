package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/repository"
)

// commands is the slice of the redis client the session store uses.
// Narrowed so tests can stand in for the server with fabricated cmd
// results.
type commands interface {
	Get(ctx context.Context, key string) *redislib.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redislib.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redislib.BoolCmd
	Del(ctx context.Context, keys ...string) *redislib.IntCmd
}

type sessionRepository struct {
	client commands
	prefix string
}

// NewSessionRepository creates a Redis-backed session store. Rows live
// under token keys with native TTL, so expiry needs no sweeping here;
// a pair index key enforces at most one session per (client, user).
func NewSessionRepository(client *redislib.Client) repository.SessionRepository {
	return &sessionRepository{
		client: client,
		prefix: "session:",
	}
}

func (r *sessionRepository) FindByPair(ctx context.Context, clientID, userID int64) (*domain.Session, error) {
	tokenHex, err := r.client.Get(ctx, r.pairKey(clientID, userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	token, err := domain.ParseToken(tokenHex)
	if err != nil {
		return nil, err
	}
	return r.GetByToken(ctx, token)
}

func (r *sessionRepository) GetByToken(ctx context.Context, token domain.Token) (*domain.Session, error) {
	result, err := r.client.Get(ctx, r.tokenKey(token)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create claims the pair key with SETNX, which is the atomic
// insert-if-absent: the loser of a concurrent race reads back the
// winner's session instead of overwriting it. The claim is released
// again if the token row cannot be written, and a pair key with no
// token row behind it (a crash between the two writes) is reclaimed
// rather than treated as a live session.
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if session == nil || session.Token.IsZero() {
		return nil, domain.ErrInvalidPayload
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil, domain.ErrInvalidPayload
	}

	pairKey := r.pairKey(session.ClientID, session.UserID)
	claimed, err := r.client.SetNX(ctx, pairKey, session.Token.String(), ttl).Result()
	if err != nil {
		return nil, err
	}
	if !claimed {
		existing, err := r.FindByPair(ctx, session.ClientID, session.UserID)
		if err == nil {
			return existing, nil
		}
		if err != domain.ErrSessionNotFound {
			return nil, err
		}
		// Dangling claim: drop it and contend once more. Losing the
		// second round means another writer repaired the pair.
		if err := r.client.Del(ctx, pairKey).Err(); err != nil {
			return nil, err
		}
		claimed, err = r.client.SetNX(ctx, pairKey, session.Token.String(), ttl).Result()
		if err != nil {
			return nil, err
		}
		if !claimed {
			existing, err := r.FindByPair(ctx, session.ClientID, session.UserID)
			if err != nil {
				if err == domain.ErrSessionNotFound {
					return nil, domain.ErrSessionFailure
				}
				return nil, err
			}
			return existing, nil
		}
	}

	payload, err := json.Marshal(session)
	if err != nil {
		_ = r.client.Del(ctx, pairKey).Err()
		return nil, err
	}
	if err := r.client.Set(ctx, r.tokenKey(session.Token), payload, ttl).Err(); err != nil {
		// Release the claim so the pair is not locked out for the TTL.
		_ = r.client.Del(ctx, pairKey).Err()
		return nil, err
	}

	// Read-after-write confirmation; a session we cannot read back was
	// never really created.
	stored, err := r.GetByToken(ctx, session.Token)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, domain.ErrSessionFailure
		}
		return nil, err
	}
	return stored, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token domain.Token) (int64, error) {
	session, err := r.GetByToken(ctx, token)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return 0, nil
		}
		return 0, err
	}

	removed, err := r.client.Del(ctx, r.tokenKey(token)).Result()
	if err != nil {
		return 0, err
	}
	if err := r.client.Del(ctx, r.pairKey(session.ClientID, session.UserID)).Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (r *sessionRepository) DeleteByPair(ctx context.Context, clientID, userID int64) error {
	tokenHex, err := r.client.Get(ctx, r.pairKey(clientID, userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil
		}
		return err
	}
	if token, err := domain.ParseToken(tokenHex); err == nil {
		if err := r.client.Del(ctx, r.tokenKey(token)).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.pairKey(clientID, userID)).Err()
}

func (r *sessionRepository) tokenKey(token domain.Token) string {
	return fmt.Sprintf("%stoken:%s", r.prefix, token)
}

func (r *sessionRepository) pairKey(clientID, userID int64) string {
	return fmt.Sprintf("%spair:%d:%d", r.prefix, clientID, userID)
}
