package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodmate/backend/internal/analysis/mood"
	"github.com/moodmate/backend/internal/model/chat"
)

var ErrNotFound = errors.New("session not found")

// Store is the in-memory session table. All mutations on one session happen
// under the store lock, so turn order and message counts never interleave.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
	turns    map[string][]chat.Turn
	moods    map[string][]chat.MoodSample

	now    func() time.Time
	logger *zap.Logger
}

// NewStore bootstraps an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*chat.Session),
		turns:    make(map[string][]chat.Turn),
		moods:    make(map[string][]chat.MoodSample),
		now:      time.Now,
		logger:   logger,
	}
}

// Create provisions a new anonymous session. It never fails.
func (s *Store) Create(_ context.Context) chat.Session {
	now := s.now().UTC()
	session := chat.Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
		CurrentMood:  mood.Neutral,
	}

	s.mu.Lock()
	s.sessions[session.ID] = &session
	s.turns[session.ID] = make([]chat.Turn, 0, 16)
	s.moods[session.ID] = make([]chat.MoodSample, 0, 16)
	s.mu.Unlock()

	return session
}

// Get retrieves a copy of the session by identifier.
func (s *Store) Get(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrNotFound
	}
	return *session, nil
}

// AppendTurn appends a turn to the session history, bumps last activity and,
// for user turns, the message count. Returns the stored turn with its
// identifier and timestamp filled in.
func (s *Store) AppendTurn(_ context.Context, sessionID string, turn chat.Turn) (chat.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Turn{}, ErrNotFound
	}

	turn.ID = uuid.NewString()
	turn.SessionID = sessionID
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now().UTC()
	}

	s.turns[sessionID] = append(s.turns[sessionID], turn)
	session.LastActivity = s.now().UTC()
	if turn.Role == chat.RoleUser {
		session.MessageCount++
	}

	return turn, nil
}

// UpdateMood sets the session's current mood and appends the sample to the
// mood history.
func (s *Store) UpdateMood(_ context.Context, sessionID string, sample chat.MoodSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}

	session.CurrentMood = sample.Mood
	session.LastActivity = s.now().UTC()
	s.moods[sessionID] = append(s.moods[sessionID], sample)
	return nil
}

// History returns the session, a copy of its turns, and a mood-count summary.
func (s *Store) History(_ context.Context, sessionID string) (chat.Session, []chat.Turn, map[mood.Label]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, nil, nil, ErrNotFound
	}

	turns := make([]chat.Turn, len(s.turns[sessionID]))
	copy(turns, s.turns[sessionID])

	summary := make(map[mood.Label]int)
	for _, sample := range s.moods[sessionID] {
		summary[sample.Mood]++
	}

	return *session, turns, summary, nil
}

// Count reports the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictInactive removes every session whose last activity is older than
// now minus threshold and reports how many were removed. A session touched
// concurrently with the sweep keeps its updated activity time and survives.
func (s *Store) EvictInactive(threshold time.Duration) int {
	cutoff := s.now().UTC().Add(-threshold)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.turns, id)
			delete(s.moods, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs periodic eviction until the context is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := s.EvictInactive(ttl); evicted > 0 {
					s.logger.Info("evicted inactive sessions",
						zap.Int("count", evicted),
						zap.Duration("ttl", ttl))
				}
			}
		}
	}()
}
