package view

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/telemetry"
)

const (
	// DefaultSessionTTL is how long an idle session keeps its controller.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultMaxSessions caps the registry. Past it the least recently seen
	// session is evicted.
	DefaultMaxSessions = 10000

	// sweepInterval is the longest gap between idle-session sweeps.
	sweepInterval = time.Minute
)

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions maps visitor session IDs to their Controllers.
type Sessions struct {
	notifier Notifier
	log      logger.Logger
	metrics  *telemetry.Metrics
	ttl      time.Duration
	max      int
	now      func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
}

// NewSessions creates an empty registry. A non-positive ttl uses DefaultSessionTTL.
func NewSessions(notifier Notifier, ttl time.Duration, log logger.Logger, metrics *telemetry.Metrics) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		notifier: notifier,
		log:      log,
		metrics:  metrics,
		ttl:      ttl,
		max:      DefaultMaxSessions,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Lookup returns the controller for id. A malformed or empty id gets a fresh
// session ID; a well-formed unknown id (for example after a restart) keeps
// its ID so stored preferences still match. The returned ID is the one the
// caller should hand back to the visitor.
func (s *Sessions) Lookup(id string) (*Controller, string) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		if len(s.sessions) >= s.max {
			s.evictOldestLocked()
		}
		sess = &session{ctrl: NewController(id, s.notifier, s.log, s.metrics)}
		s.sessions[id] = sess
		s.log.Debug("Session created", logger.String("session_id", id))
	}
	sess.lastSeen = now
	s.publishLocked()
	return sess.ctrl, id
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked drops idle sessions, at most once per sweep interval.
func (s *Sessions) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < min(s.ttl, sweepInterval) {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *Sessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.log.Debug("Session evicted", logger.String("session_id", oldestID))
	}
}

func (s *Sessions) publishLocked() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}
