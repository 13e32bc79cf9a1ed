package mcp

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultIdleTimeout is how long a session may sit idle before expiry
const DefaultIdleTimeout = 30 * time.Minute

// Canonical UUID grouping; checked before any session table lookup.
var sessionIDPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// ValidSessionID reports whether the id has the canonical UUID format
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Session is a live MCP session bound to a transport
type Session struct {
	ID        string
	Transport *Transport
	CreatedAt time.Time
}

type sessionEntry struct {
	session *Session
	timer   *time.Timer
	// gen advances on every re-arm; a fired timer carrying an older
	// generation must not expire the session.
	gen uint64
}

// SessionManager owns the session table and the idle-expiry timers. The
// timer lives in the same entry as the session and is cancelled under the
// same lock that removes the entry, so an explicit close and a firing expiry
// cannot double-clean or resurrect a session.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	idleTimeout time.Duration
	logger      *logrus.Logger
}

// NewSessionManager creates a session manager with the given idle timeout.
// A zero timeout falls back to the 30 minute default.
func NewSessionManager(idleTimeout time.Duration, logger *logrus.Logger) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &SessionManager{
		sessions:    make(map[string]*sessionEntry),
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// Create registers a new session for the transport and starts its idle timer
func (m *SessionManager) Create(transport *Transport) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		Transport: transport,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = &sessionEntry{
		session: session,
		timer:   time.AfterFunc(m.idleTimeout, func() { m.expire(session.ID, 0) }),
	}
	m.mu.Unlock()

	m.logger.WithField("session_id", session.ID).Info("New MCP session initialized")
	return session
}

// Get looks up a session by id
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// Touch resets the session's idle timer. Called on every successful
// interaction with the session. Stop may report the old timer as already
// fired with its expire callback waiting on the lock; bumping the
// generation turns that pending callback into a no-op.
func (m *SessionManager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return
	}
	entry.timer.Stop()
	entry.gen++
	gen := entry.gen
	entry.timer = time.AfterFunc(m.idleTimeout, func() { m.expire(id, gen) })
}

// Close removes the session and cancels its idle timer, then closes the
// transport. Returns false when the session is unknown (already closed or
// expired), which callers treat as an invalid-request condition.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	entry.timer.Stop()
	delete(m.sessions, id)
	m.mu.Unlock()

	// Transport close fires OnClose, which re-enters Close and finds the
	// entry already gone. The lock is released before this point.
	entry.session.Transport.Close()
	m.logger.WithField("session_id", id).Info("MCP session closed")
	return true
}

// expire is the idle-timer path; identical to Close apart from logging and
// the generation check, which discards firings of timers that were
// superseded by a Touch.
func (m *SessionManager) expire(id string, gen uint64) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if !ok || entry.gen != gen {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	entry.session.Transport.Close()
	m.logger.WithField("session_id", id).Info("Auto-cleaned inactive MCP session")
}

// CloseAll tears down every live session, used on server shutdown
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Close(id)
	}
	m.logger.Info("Closed all MCP sessions")
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
