package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

const (
	// successResetDelay is how long the success screen stays up before a
	// render sends the session back to the category tiles.
	successResetDelay = 6 * time.Second

	// sessionTTL expires idle sessions, so a tablet that sat untouched
	// overnight starts on the category tiles.
	sessionTTL = 30 * time.Minute
)

// Success captures what the success screen shows after a submission.
type Success struct {
	OperatorName  string
	CategoryLabel string
	DateLabel     string
	ShownAt       time.Time
}

// Session is one tablet's walk through the signup flow. Flow fields are
// guarded by the session's own lock; handlers hold it for the whole request
// so a session only ever runs one request at a time.
type Session struct {
	ID string

	mu sync.Mutex

	Category model.Category
	Date     string
	Success  *Success
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset clears the flow back to the category tiles. Callers hold the lock.
func (s *Session) Reset() {
	s.Category = ""
	s.Date = ""
	s.Success = nil
}

// expireSuccess resets the flow once the success screen has been up long
// enough. It runs on every render, so no timer is needed to go home.
func (s *Session) expireSuccess(now time.Time) {
	if s.Success != nil && now.Sub(s.Success.ShownAt) >= successResetDelay {
		s.Reset()
	}
}

// Sessions tracks every tablet session by cookie ID. lastSeen lives here,
// under the manager's lock, so sweeping never races a request in flight.
type Sessions struct {
	mu       sync.Mutex
	byID     map[string]*Session
	lastSeen map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions builds a session table on the given clock.
func NewSessions(now func() time.Time) *Sessions {
	return &Sessions{
		byID:     map[string]*Session{},
		lastSeen: map[string]time.Time{},
		ttl:      sessionTTL,
		now:      now,
	}
}

// Acquire returns the session for id, minting a fresh one when the id is
// unknown or idle past the TTL. The bool reports whether a new session was
// created and so a new cookie needs setting.
func (m *Sessions) Acquire(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.byID[id]; ok {
		if now.Sub(m.lastSeen[id]) <= m.ttl {
			m.lastSeen[id] = now
			return s, false
		}
		delete(m.byID, id)
		delete(m.lastSeen, id)
	}

	s := &Session{ID: uuid.NewString()}
	m.byID[s.ID] = s
	m.lastSeen[s.ID] = now
	return s, true
}

// Sweep drops sessions idle past the TTL and reports how many went.
func (m *Sessions) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for id, seen := range m.lastSeen {
		if now.Sub(seen) > m.ttl {
			delete(m.byID, id)
			delete(m.lastSeen, id)
			dropped++
		}
	}
	return dropped
}

// Len reports how many sessions are live.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// StartGC sweeps idle sessions on a ticker until ctx is cancelled.
func (m *Sessions) StartGC(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					logger.Debug("Swept idle sessions", zap.Int("count", n))
				}
			}
		}
	}()
}
