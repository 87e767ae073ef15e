package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	"github.com/yupiflow/admin-gateway/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenExchanger = (*MockExchanger)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.AuditRecorder  = (*RecordingAudit)(nil)
)

// MockExchanger simulates the backend auth endpoints. Each behavior can be
// overridden per test; unset functions fall back to the defaults.
type MockExchanger struct {
	ExchangeFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (string, string, error)
	RevokeFunc   func(ctx context.Context, accessToken string) error

	// DefaultIdentity is returned by Exchange when ExchangeFunc is unset.
	DefaultIdentity domainauth.Identity

	mu           sync.Mutex
	exchangeCnt  int
	refreshCnt   int
	revokeCnt    int
	revokedToken string
}

// NewMockExchanger returns an exchanger that accepts any credentials as a
// webmaster account.
func NewMockExchanger() *MockExchanger {
	return &MockExchanger{
		DefaultIdentity: domainauth.Identity{
			UserID:       "user-1",
			Name:         "Test Webmaster",
			Email:        "webmaster@example.com",
			Role:         domainauth.RoleWebmaster,
			Country:      "NL",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		},
	}
}

func (m *MockExchanger) Exchange(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	m.mu.Lock()
	m.exchangeCnt++
	m.mu.Unlock()
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, creds)
	}
	return m.DefaultIdentity, nil
}

func (m *MockExchanger) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	m.mu.Lock()
	m.refreshCnt++
	m.mu.Unlock()
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return "access-refreshed", "refresh-rotated", nil
}

func (m *MockExchanger) Revoke(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	m.revokeCnt++
	m.revokedToken = accessToken
	m.mu.Unlock()
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, accessToken)
	}
	return nil
}

// ExchangeCalls returns the number of Exchange invocations.
func (m *MockExchanger) ExchangeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeCnt
}

// RefreshCalls returns the number of Refresh invocations.
func (m *MockExchanger) RefreshCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCnt
}

// RevokeCalls returns the number of Revoke invocations.
func (m *MockExchanger) RevokeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeCnt
}

// RevokedToken returns the last token passed to Revoke.
func (m *MockExchanger) RevokedToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokedToken
}

// MemorySessionStore is an in-memory session store for tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session

	// SaveErr and GetErr force failures when set.
	SaveErr error
	GetErr  error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if s.GetErr != nil {
		return domainauth.Session{}, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ErrNotFound is returned when a session is not in the store.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}

// RecordingAudit captures audit events for assertions.
type RecordingAudit struct {
	mu     sync.Mutex
	events []audit.Event

	// Err forces Record to fail when set.
	Err error
}

func (r *RecordingAudit) Record(_ context.Context, evt audit.Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Events returns a copy of the recorded events.
func (r *RecordingAudit) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the recorded event kinds in order.
func (r *RecordingAudit) Kinds() []audit.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]audit.Kind, len(r.events))
	for i, evt := range r.events {
		kinds[i] = evt.Kind
	}
	return kinds
}
