// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions live for as long as the process does, which matches the
// one-session-per-browser lifetime of a game.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs the caller's mutation under the write lock, so two requests
//     for the same session never interleave.
//   - Sessions idle longer than the TTL are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Update loads a session and applies fn while holding exclusive access.
	// The error from fn is returned as-is.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete removes a session. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions idle for longer than ttl and reports how many.
	Sweep(now time.Time, ttl time.Duration) int
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]*game.Session)}
}

func (m *Memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions not updated since now-ttl and returns how many went.
func (m *Memory) Sweep(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
