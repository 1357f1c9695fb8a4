package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/roster/internal/metrics"
	"github.com/JonMunkholm/roster/internal/store"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type entry struct {
	editor   *Editor
	lastSeen time.Time
}

// Store holds editor sessions keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	sink   store.Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates an empty store whose editors commit to sink.
func NewStore(sink store.Sink, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*entry),
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a new empty session.
func (s *Store) Create() (string, *Editor) {
	id := uuid.NewString()
	ed := NewEditor(s.sink, s.logger.With("session_id", id))

	s.mu.Lock()
	s.sessions[id] = &entry{editor: ed, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
	s.logger.Info("session created", "session_id", id)
	return id, ed
}

// Get returns the editor for id and marks the session as used.
func (s *Store) Get(id string) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.editor, nil
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if ok {
		metrics.SetActiveSessions(n)
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var expired []string
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if len(expired) > 0 {
		metrics.SetActiveSessions(n)
		for _, id := range expired {
			s.logger.Info("session expired", "session_id", id)
		}
	}
	return len(expired)
}

// StartJanitor sweeps idle sessions every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ttl)
			}
		}
	}()
}
