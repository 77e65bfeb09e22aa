package contextguard

import (
	"sync"
	"time"
)

const (
	// sessionTTL is how long a session entry survives past its last
	// warning stamp before the sweep purges it.
	sessionTTL = 30 * time.Minute

	// sweepInterval throttles the lazy garbage collection.
	sweepInterval = 5 * time.Minute
)

// sessionState is the ephemeral per-session record. estimatedTokens only
// grows except through an explicit reset; warningCount resets at turn
// boundaries while the token estimate is session-lifetime cumulative.
// everWarned never resets: the cooldown gate keys off it so a turn
// boundary cannot re-arm a warning inside the cooldown window.
type sessionState struct {
	estimatedTokens int
	lastWarningTime time.Time
	warningCount    int
	everWarned      bool
}

// SessionStore holds per-session guard state for all concurrently active
// sessions. It is an explicit object constructed once at process start and
// threaded through the pipeline by reference; many readers may hold the
// lock concurrently, writers are exclusive.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionState
	lastSweep time.Time
	now       func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionState),
	}
}

func (s *SessionStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// get returns the entry for id, creating it if needed. The warning stamp
// starts at creation time so a session that never warns is still
// sweepable once it goes stale. Callers hold the write lock.
func (s *SessionStore) get(id string) *sessionState {
	st, ok := s.sessions[id]
	if !ok {
		st = &sessionState{lastWarningTime: s.clock()}
		s.sessions[id] = st
	}
	return st
}

// AddTokens adds n to the session's running estimate and returns the new
// total.
func (s *SessionStore) AddTokens(id string, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	st.estimatedTokens += n
	return st.estimatedTokens
}

// EstimatedTokens returns the session's running estimate.
func (s *SessionStore) EstimatedTokens(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.sessions[id]; ok {
		return st.estimatedTokens
	}
	return 0
}

// ResetTokens is the one operation that lowers the estimate, used after
// the driver compacts the conversation.
func (s *SessionStore) ResetTokens(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.estimatedTokens = 0
	}
}

// ResetWarnings zeroes the session's warning count at a turn boundary.
// The token estimate and warning stamp are left alone.
func (s *SessionStore) ResetWarnings(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.warningCount = 0
	}
}

// WarningCount returns the session's warning count.
func (s *SessionStore) WarningCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.sessions[id]; ok {
		return st.warningCount
	}
	return 0
}

// TryWarn applies the emission gate for one warning: the time since the
// session's last warning must be at least cooldown and its warning count
// below maxWarnings. On success the stamp and count are updated atomically
// and TryWarn reports true.
func (s *SessionStore) TryWarn(id string, cooldown time.Duration, maxWarnings int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return false
	}
	now := s.clock()
	if st.warningCount >= maxWarnings {
		return false
	}
	// The creation stamp exempts only the very first warning; once a
	// warning has been emitted the cooldown holds across turn boundaries.
	if st.everWarned && now.Sub(st.lastWarningTime) < cooldown {
		return false
	}
	st.lastWarningTime = now
	st.warningCount++
	st.everWarned = true
	return true
}

// MaybeSweep runs the garbage-collection sweep if the throttle allows it,
// returning how many sessions were purged. Calling it from every
// PostToolUse event approximates a periodic timer without a background
// goroutine.
func (s *SessionStore) MaybeSweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if !s.lastSweep.IsZero() && now.Sub(s.lastSweep) < sweepInterval {
		return 0
	}
	s.lastSweep = now

	purged := 0
	for id, st := range s.sessions {
		if now.Sub(st.lastWarningTime) > sessionTTL {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
