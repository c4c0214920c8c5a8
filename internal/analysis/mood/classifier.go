package mood

import (
	"regexp"
	"strings"
)

// Label is the closed set of moods a turn can be tagged with.
type Label string

const (
	Neutral  Label = "neutral"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Stressed Label = "stressed"
	Angry    Label = "angry"
	Confused Label = "confused"
)

// category pairs a label with its keyword pattern. Whole-word matching keeps
// substrings from false-flagging ("mad" must not match inside "made").
type category struct {
	label Label
	re    *regexp.Regexp
}

// Categories are ordered by safety relevance; a tied score resolves to the
// earlier entry.
var categories = []category{
	{Sad, regexp.MustCompile(`(?i)\b(sad|down|depressed|upset|crying|hurt|disappointed|gloomy|miserable|heartbroken|lonely|empty|hopeless)\b`)},
	{Happy, regexp.MustCompile(`(?i)\b(happy|great|awesome|excited|joy|amazing|fantastic|wonderful|thrilled|elated|cheerful|delighted|pleased)\b`)},
	{Stressed, regexp.MustCompile(`(?i)\b(stressed|anxious|worried|nervous|overwhelmed|panic|tense|pressure|burden|frantic|exhausted)\b`)},
	{Angry, regexp.MustCompile(`(?i)\b(angry|mad|furious|irritated|annoyed|rage|pissed|frustrated|livid|hate)\b`)},
	{Confused, regexp.MustCompile(`(?i)\b(confused|lost|uncertain|unclear|puzzled|bewildered)\b`)},
}

// Classify maps raw text onto a mood label. It is deterministic and total:
// empty input or no keyword hit yields Neutral.
func Classify(text string) Label {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Neutral
	}

	best := Neutral
	bestScore := 0
	for _, c := range categories {
		score := len(c.re.FindAllString(trimmed, -1))
		if score > bestScore {
			bestScore = score
			best = c.label
		}
	}

	return best
}

// Known reports whether the label is part of the closed mood set.
func Known(l Label) bool {
	switch l {
	case Neutral, Happy, Sad, Stressed, Angry, Confused:
		return true
	}
	return false
}
