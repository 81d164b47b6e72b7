package auth

import (
	"context"
	"sync"
	"time"

	"github.com/boxtick/backend/domain"
)

type fakeClients struct {
	bySysName map[string]*domain.Client
	err       error
}

func newFakeClients(clients ...*domain.Client) *fakeClients {
	f := &fakeClients{bySysName: make(map[string]*domain.Client)}
	for _, c := range clients {
		f.bySysName[c.SysName] = c
	}
	return f
}

func (f *fakeClients) GetBySysName(_ context.Context, sysName string) (*domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.bySysName[sysName]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (f *fakeClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.bySysName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

type fakeUsers struct {
	byUsername map[string]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byUsername: make(map[string]*domain.User)}
	for _, u := range users {
		f.byUsername[u.Username] = u
	}
	return f
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type pairKey struct {
	clientID int64
	userID   int64
}

// fakeSessions mimics the storage contract: rows come back whether
// expired or not, and Create is insert-if-absent against live rows.
type fakeSessions struct {
	mu        sync.Mutex
	byToken   map[domain.Token]*domain.Session
	byPair    map[pairKey]*domain.Session
	now       func() time.Time
	createErr error
}

func newFakeSessions(now func() time.Time) *fakeSessions {
	return &fakeSessions{
		byToken: make(map[domain.Token]*domain.Session),
		byPair:  make(map[pairKey]*domain.Session),
		now:     now,
	}
}

func (f *fakeSessions) FindByPair(_ context.Context, clientID, userID int64) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byPair[pairKey{clientID, userID}]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessions) GetByToken(_ context.Context, token domain.Token) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byToken[token]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessions) Create(_ context.Context, session *domain.Session) (*domain.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{session.ClientID, session.UserID}
	if existing, ok := f.byPair[key]; ok && existing.ExpiresAt.After(f.now()) {
		copied := *existing
		return &copied, nil
	} else if ok {
		delete(f.byToken, existing.Token)
	}
	copied := *session
	f.byPair[key] = &copied
	f.byToken[session.Token] = &copied
	result := copied
	return &result, nil
}

func (f *fakeSessions) Delete(_ context.Context, token domain.Token) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok {
		return 0, nil
	}
	delete(f.byToken, token)
	delete(f.byPair, pairKey{s.ClientID, s.UserID})
	return 1, nil
}

func (f *fakeSessions) DeleteByPair(_ context.Context, clientID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{clientID, userID}
	if s, ok := f.byPair[key]; ok {
		delete(f.byToken, s.Token)
		delete(f.byPair, key)
	}
	return nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byToken)
}

type recordedAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordedAudit) Record(_ context.Context, event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.events))
	for _, e := range r.events {
		actions = append(actions, e.Action)
	}
	return actions
}
