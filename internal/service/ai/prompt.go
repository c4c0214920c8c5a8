package ai

import (
	"fmt"
	"strings"

	"github.com/moodmate/backend/internal/model/persona"
)

// BuildSystemPrompt assembles the persona preamble for the completion
// backend. userName is the best-effort remembered name and may be empty.
func BuildSystemPrompt(p persona.Persona, userName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s.\n\n", p.Name, p.Title)
	fmt.Fprintf(&b, "Character:\n- Tone: %s\n", p.Tone)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&b, "- Traits: %s\n", strings.Join(p.Traits, ", "))
	}
	fmt.Fprintf(&b, "- Style hint: %s\n", p.PromptHint)

	b.WriteString(`
Conversation rules:
- You are a supportive mood companion, not a therapist. Never diagnose, prescribe, or promise clinical outcomes.
- Keep replies short (2-4 sentences), warm, and in character.
- Acknowledge the user's feeling before anything else.
- Offer at most one small, concrete next step (a breathing exercise, a short walk, writing one sentence down).
- Never invent facts about the user's life.`)

	if userName != "" {
		fmt.Fprintf(&b, "\n\nThe user previously told you their name is %s; greet them by name when natural.", userName)
	}

	return b.String()
}
