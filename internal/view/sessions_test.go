package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/logger"
)

func TestSessions_Lookup(t *testing.T) {
	s := NewSessions(nil, time.Hour, logger.NewNop(), nil)

	first, id := s.Lookup("")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	again, sameID := s.Lookup(id)
	assert.Same(t, first, again)
	assert.Equal(t, id, sameID)

	_, other := s.Lookup("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", other)
	assert.Equal(t, 2, s.Len())
}

func TestSessions_KeepsWellFormedUnknownID(t *testing.T) {
	s := NewSessions(nil, time.Hour, logger.NewNop(), nil)
	known := uuid.NewString()

	ctrl, id := s.Lookup(known)

	assert.Equal(t, known, id)
	assert.Equal(t, known, ctrl.SessionID())
}

func TestSessions_ExpireIdle(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewSessions(nil, time.Hour, logger.NewNop(), nil)
	s.now = func() time.Time { return now }

	idle, idleID := s.Lookup("")
	idle.Select(Developer)

	now = now.Add(2 * time.Hour)
	_, _ = s.Lookup("")

	assert.Equal(t, 1, s.Len())
	fresh, _ := s.Lookup(idleID)
	assert.Equal(t, None, fresh.Active(), "expired session starts over on home")
}

func TestSessions_SweepsWellBeforeTTL(t *testing.T) {
	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	now := start
	s := NewSessions(nil, 24*time.Hour, logger.NewNop(), nil)
	s.now = func() time.Time { return now }

	_, idle := s.Lookup("")
	now = start.Add(time.Hour)
	_, _ = s.Lookup(idle)

	now = start.Add(24 * time.Hour)
	_, active := s.Lookup("")
	require.Equal(t, 2, s.Len())

	// idle expires 90 minutes after the last sweep.
	now = start.Add(25*time.Hour + 30*time.Minute)
	_, _ = s.Lookup(active)

	assert.Equal(t, 1, s.Len())
}

func TestSessions_CapEvictsLeastRecentlySeen(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewSessions(nil, time.Hour, logger.NewNop(), nil)
	s.now = func() time.Time { return now }
	s.max = 3

	ids := make([]string, 0, 3)
	for range 3 {
		now = now.Add(time.Second)
		_, id := s.Lookup("")
		ids = append(ids, id)
	}
	// Touch the oldest so the second becomes least recently seen.
	now = now.Add(time.Second)
	_, _ = s.Lookup(ids[0])

	now = now.Add(time.Second)
	_, _ = s.Lookup("")

	assert.Equal(t, 3, s.Len())
	s.mu.Lock()
	_, kept := s.sessions[ids[0]]
	_, evicted := s.sessions[ids[1]]
	s.mu.Unlock()
	assert.True(t, kept)
	assert.False(t, evicted)
}
