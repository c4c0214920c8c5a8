package chat

import (
	"time"

	"github.com/moodmate/backend/internal/analysis/mood"
)

// Turn roles. Turns are immutable once appended to a session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn persists an individual message for history/audit.
type Turn struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Mood      mood.Label `json:"mood,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
