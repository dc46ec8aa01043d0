// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session keys dialogue agents by session ID for the HTTP surface.
// The store owns session lifecycle: creation, lookup, deletion, and TTL
// eviction of idle sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-agent/internal/agent"
)

// timeNow is the clock used for TTL bookkeeping. Tests override it to avoid
// real sleeps.
var timeNow = time.Now

// Session binds one agent to its ID. Lock serializes turns: the agent is
// not safe for concurrent invocation, so every caller holds the session
// mutex around agent calls.
type Session struct {
	ID    string
	Agent *agent.Agent

	mu sync.Mutex

	// lastSeen is guarded by the store mutex, not the session mutex.
	lastSeen time.Time
}

// Lock acquires the per-session turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store manages session lifecycle.
type Store interface {
	// Create makes a new session with a fresh ID.
	Create() *Session
	// Get returns the session for id, or false when it does not exist or
	// has been evicted.
	Get(id string) (*Session, bool)
	// Delete removes the session. Deleting a missing session is a no-op.
	Delete(id string)
}

// MemoryStore is an in-memory Store with TTL eviction. Idle sessions are
// purged on Create and Get.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	newAgent func() *agent.Agent
	sessions map[string]*Session
}

// NewMemoryStore builds a store that constructs agents with newAgent and
// evicts sessions idle longer than ttl. ttl <= 0 disables eviction.
func NewMemoryStore(ttl time.Duration, newAgent func() *agent.Agent) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		newAgent: newAgent,
		sessions: make(map[string]*Session),
	}
}

// Create makes a new session with a fresh agent.
func (m *MemoryStore) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	s := &Session{
		ID:       uuid.NewString(),
		Agent:    m.newAgent(),
		lastSeen: timeNow(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the live session for id.
func (m *MemoryStore) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = timeNow()
	}
	return s, ok
}

// Delete removes the session for id.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// purgeLocked evicts sessions idle longer than the TTL. Caller holds m.mu.
func (m *MemoryStore) purgeLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := timeNow().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
