package triage

import (
	"regexp"
	"strings"
)

// Level is the triage outcome for a single message.
type Level string

const (
	None     Level = "none"
	Distress Level = "distress"
	Crisis   Level = "crisis"
)

// Result reports the risk level and the identifiers of the crisis patterns
// that matched. Identifiers never echo matched user text.
type Result struct {
	Level   Level    `json:"level"`
	Reasons []string `json:"reasons"`
}

type pattern struct {
	id string
	re *regexp.Regexp
}

// Conservative keyword triage. Deliberately a literal, auditable pattern
// table rather than a statistical classifier.
var crisisPatterns = []pattern{
	{"suicidal-ideation", regexp.MustCompile(`(?i)kill myself|suicide|end my life|i want to die`)},
	{"self-harm", regexp.MustCompile(`(?i)self[-\s]?harm|cutting|hurt myself`)},
	{"explicit-plan", regexp.MustCompile(`(?i)i have a plan|i bought (a rope|pills)|today is the day`)},
	{"abuse-disclosure", regexp.MustCompile(`(?i)\babuse\b|\bassault\b|he hit me|she hit me`)},
}

var amberPattern = regexp.MustCompile(`(?i)worthless|hopeless|can'?t cope|panic attack|overwhelmed|anxious`)

// Classify runs the crisis patterns first, then the broader amber set.
// It is total: empty text yields None.
func Classify(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Level: None, Reasons: []string{}}
	}

	reasons := make([]string, 0, len(crisisPatterns))
	for _, p := range crisisPatterns {
		if p.re.MatchString(text) {
			reasons = append(reasons, p.id)
		}
	}
	if len(reasons) > 0 {
		return Result{Level: Crisis, Reasons: reasons}
	}

	if amberPattern.MatchString(text) {
		return Result{Level: Distress, Reasons: []string{}}
	}

	return Result{Level: None, Reasons: []string{}}
}

// CrisisMessage is the static, non-generated safety reply used whenever a
// crisis pattern matches. The model is never consulted for these turns.
func CrisisMessage() string {
	return "I'm really glad you told me. I'm not a crisis service, but your safety matters.\n" +
		"If you feel in immediate danger, please contact local emergency services (112 in India) or reach a trusted person nearby.\n" +
		"You can also try:\n" +
		"- Kiran (India mental health helpline): 1800-599-0019\n" +
		"- iCall: 9152987821\n" +
		"Would you like a small step we can plan together while you reach out?"
}
