package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotelbox/pkg/logger"
)

var ErrNotFound = errors.New("session not found")

type Config struct {
	TTL       time.Duration
	InboxSize int
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]map[string]*Session
	cfg      Config
	parser   *TokenParser
	log      *logger.Logger
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewManager(cfg Config, parser *TokenParser, log *logger.Logger) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]map[string]*Session),
		cfg:      cfg,
		parser:   parser,
		log:      log,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go m.cleanup()

	return m
}

// Create starts a session for the owner of accessToken.
func (m *Manager) Create(accessToken string) (*Session, error) {
	claims, err := m.parser.Parse(accessToken)
	if err != nil {
		return nil, err
	}

	s := New(uuid.NewString(), claims, accessToken, m.now().Add(m.cfg.TTL), m.cfg.InboxSize, m.log)

	m.mu.Lock()
	m.sessions[s.ID] = s
	if m.byUser[s.UserID] == nil {
		m.byUser[s.UserID] = make(map[string]*Session)
	}
	m.byUser[s.UserID][s.ID] = s
	m.mu.Unlock()

	m.log.Info("session created", "session_id", s.ID, "user_id", s.UserID)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(m.now()) {
		m.Destroy(id)
		return nil, false
	}
	return s, true
}

// Renew swaps in a refreshed access token and extends the session.
func (m *Manager) Renew(id, accessToken string) (*Session, error) {
	s, ok := m.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	claims, err := m.parser.Parse(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Subject != s.UserID {
		return nil, ErrInvalidToken
	}
	s.renew(accessToken, m.now().Add(m.cfg.TTL))
	return s, nil
}

// Destroy tears the session down: in-flight actions are cancelled and all
// per-session state is dropped.
func (m *Manager) Destroy(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		if userSessions := m.byUser[s.UserID]; userSessions != nil {
			delete(userSessions, id)
			if len(userSessions) == 0 {
				delete(m.byUser, s.UserID)
			}
		}
	}
	m.mu.Unlock()

	if ok {
		s.close()
		m.log.Info("session destroyed", "session_id", id, "user_id", s.UserID)
	}
	return ok
}

// ForUser returns the live sessions of one user.
func (m *Manager) ForUser(userID string) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.byUser[userID]))
	for _, s := range m.byUser[userID] {
		out = append(out, s)
	}
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.purgeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) purgeExpired() {
	now := m.now()

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.expired(now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.Destroy(id)
	}
}

// Stop ends the cleanup loop and destroys every session.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)

		m.mu.RLock()
		ids := make([]string, 0, len(m.sessions))
		for id := range m.sessions {
			ids = append(ids, id)
		}
		m.mu.RUnlock()

		for _, id := range ids {
			m.Destroy(id)
		}
	})
}
