package memory

import (
	"encoding/json"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

var namePattern = regexp.MustCompile(`(?i)my name is\s+([A-Za-z][A-Za-z\-']*)`)

// Store is a best-effort JSON file mapping userID to remembered attributes.
// It is auxiliary personalization, never authoritative state: a missing or
// corrupt file degrades to empty memory and writes are fire-and-forget.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewStore returns a file-backed store. An empty path disables persistence;
// Load then always returns empty memory and Save is a no-op.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Enabled reports whether a backing file is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.path != ""
}

// Load returns the remembered attributes for a user, or an empty map.
func (s *Store) Load(userID string) map[string]string {
	if !s.Enabled() {
		return map[string]string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	attrs, ok := all[userID]
	if !ok {
		return map[string]string{}
	}
	return attrs
}

// Save merges updates into the user's remembered attributes and rewrites the
// whole file. Failures are logged and swallowed.
func (s *Store) Save(userID string, updates map[string]string) {
	if !s.Enabled() || len(updates) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	current, ok := all[userID]
	if !ok {
		current = map[string]string{}
	}
	for key, value := range updates {
		current[key] = value
	}
	all[userID] = current

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode memory file", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("failed to write memory file", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *Store) readAll() map[string]map[string]string {
	all := make(map[string]map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("ignoring corrupt memory file", zap.String("path", s.path), zap.Error(err))
		return make(map[string]map[string]string)
	}
	return all
}

// ExtractName pulls a disclosed name out of a message via the fixed
// "my name is ..." pattern.
func ExtractName(text string) (string, bool) {
	match := namePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}
