// Package preference persists small per-visitor display settings.
package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/database"
)

// ErrNotFound is returned by KV.Get when nothing is stored under the key.
var ErrNotFound = errors.New("preference not found")

// KV is string storage for one visitor.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// ToggleBool flips the boolean stored under key in one step and returns
	// the new value. A missing or unreadable value counts as false.
	ToggleBool(ctx context.Context, key string) (bool, error)
}

// SQLiteStore keeps preferences in the preferences table, one row per
// session and key.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a store over db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Scope returns the KV for one session.
func (s *SQLiteStore) Scope(sessionID string) KV {
	return &sessionKV{store: s, sessionID: sessionID}
}

type sessionKV struct {
	store     *SQLiteStore
	sessionID string
}

func (kv *sessionKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := kv.store.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE session_id = ? AND key = ?`,
		kv.sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, nil
}

func (kv *sessionKV) Set(ctx context.Context, key, value string) error {
	_, err := kv.store.db.ExecContext(ctx, `
		INSERT INTO preferences (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, kv.sessionID, key, value, database.FormatTime(kv.store.now()))
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (kv *sessionKV) ToggleBool(ctx context.Context, key string) (bool, error) {
	var value string
	err := kv.store.db.QueryRowContext(ctx, `
		INSERT INTO preferences (session_id, key, value, updated_at)
		VALUES (?, ?, 'true', ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = CASE WHEN preferences.value IN ('1', 't', 'T', 'true', 'TRUE', 'True')
				THEN 'false' ELSE 'true' END,
			updated_at = excluded.updated_at
		RETURNING value
	`, kv.sessionID, key, database.FormatTime(kv.store.now())).Scan(&value)
	if err != nil {
		return false, fmt.Errorf("toggle preference %s: %w", key, err)
	}
	return value == "true", nil
}

// MemoryStore is an in-process KV. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// ToggleBool flips the boolean stored under key.
func (m *MemoryStore) ToggleBool(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	current, _ := strconv.ParseBool(m.values[key])
	m.values[key] = strconv.FormatBool(!current)
	return !current, nil
}
