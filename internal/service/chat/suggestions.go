package chat

import "github.com/moodmate/backend/internal/analysis/mood"

// Follow-up prompts offered alongside each reply. Purely presentational.
var suggestionTable = map[mood.Label][]string{
	mood.Sad:      {"Tell me a joke", "I need motivation", "Help me feel better", "Share something positive"},
	mood.Happy:    {"Tell me more good things", "Share the joy", "Keep the energy up", "Celebrate with me"},
	mood.Stressed: {"Help me relax", "Breathing exercises", "Distract me", "Calm my mind"},
	mood.Angry:    {"Help me cool down", "Count to ten", "Tell me about cookies", "Channel this energy"},
	mood.Confused: {"Help me understand", "Break it down for me", "What should I do?", "Make it simple"},
	mood.Neutral:  {"How are you feeling?", "Tell me about your day", "Surprise me", "Ask me anything"},
}

// SuggestionsFor returns the follow-up prompts for a mood. Total: unmapped
// labels fall back to the neutral set.
func SuggestionsFor(label mood.Label) []string {
	if suggestions, ok := suggestionTable[label]; ok {
		return append([]string(nil), suggestions...)
	}
	return append([]string(nil), suggestionTable[mood.Neutral]...)
}

// CrisisSuggestions accompanies the static safety reply. Grounding-focused,
// never playful.
func CrisisSuggestions() []string {
	return []string{
		"Help me find someone to talk to",
		"Stay with me for a moment",
		"Walk me through a breathing exercise",
	}
}
