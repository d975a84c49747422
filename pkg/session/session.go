package session

import (
	"context"
	"sync"
	"time"

	"hotelbox/pkg/action"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/logger"
)

// Session owns everything the portal keeps for one logged-in agent. It is
// created at login and torn down at logout or expiry.
type Session struct {
	ID        string
	UserID    string
	Username  string
	CreatedAt time.Time

	Bridge *action.Bridge
	Inbox  *action.Inbox

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	values      map[string]any
	closed      bool
}

// New builds a detached session. Manager.Create is the normal entry point.
func New(id string, claims *Claims, token string, expiresAt time.Time, inboxSize int, log *logger.Logger) *Session {
	inbox := action.NewInbox(inboxSize)
	return &Session{
		ID:          id,
		UserID:      claims.Subject,
		Username:    claims.Username,
		CreatedAt:   time.Now(),
		Bridge:      action.NewBridge(inbox, log.With("session_id", id)),
		Inbox:       inbox,
		accessToken: token,
		expiresAt:   expiresAt,
		values:      make(map[string]any),
	}
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

func (s *Session) renew(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	s.expiresAt = expiresAt
}

// Value returns the per-session value for key, creating it with init on
// first use.
func (s *Session) Value(key string, init func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	if s.closed || init == nil {
		return nil
	}
	v := init()
	s.values[key] = v
	return v
}

func (s *Session) Peek(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) close() {
	s.Bridge.CancelAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.values = make(map[string]any)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Require is FromContext for handlers behind SessionAuth.
func Require(ctx context.Context) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok || s.Closed() {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return s, nil
}
