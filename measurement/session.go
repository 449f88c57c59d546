package measurement

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
)

// session tracks the measurement session and the state attached to every
// event it produces.
type session struct {
	mu       sync.RWMutex
	id       string
	userHash string
	active   int
	paused   bool
}

func newSession() *session {
	return &session{id: uuid.NewString()}
}

func (s *session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *session) UserHash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userHash
}

// SetUser stores a hash of userID. An empty userID clears it.
func (s *session) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userHash = hashUserID(userID)
}

// Foreground records an activity start and reports whether it resumed a
// paused session. A resumed session gets a new id.
func (s *session) Foreground() (resumed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active++
	if s.active == 1 && s.paused {
		s.paused = false
		s.id = uuid.NewString()
		return true
	}
	return false
}

// Background records an activity stop and reports whether the last
// foreground activity went away.
func (s *session) Background() (paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == 0 {
		return false
	}
	s.active--
	if s.active == 0 {
		s.paused = true
		return true
	}
	return false
}

func hashUserID(userID string) string {
	if userID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
