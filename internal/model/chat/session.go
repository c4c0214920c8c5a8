package chat

import (
	"time"

	"github.com/moodmate/backend/internal/analysis/mood"
)

// Session captures a transient anonymous conversation and its rolling mood state.
type Session struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	CurrentMood  mood.Label `json:"currentMood"`
	MessageCount int        `json:"messageCount"`
}

// MoodSample records one classified turn. Samples are appended to the session
// mood history and folded into analytics; the two consumers never share state.
type MoodSample struct {
	Mood      mood.Label `json:"mood"`
	Text      string     `json:"-"`
	Timestamp time.Time  `json:"timestamp"`
}
