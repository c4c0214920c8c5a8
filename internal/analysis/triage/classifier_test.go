package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCrisisPhrases(t *testing.T) {
	cases := []string{
		"I want to die",
		"i WANT to DIE!!!",
		"sometimes I think about suicide",
		"I've been cutting again",
		"i have a plan and today is the day",
		"he hit me last night",
	}
	for _, text := range cases {
		res := Classify(text)
		assert.Equal(t, Crisis, res.Level, "text: %s", text)
		assert.NotEmpty(t, res.Reasons, "text: %s", text)
	}
}

func TestClassifyCrisisReasonsAreIdentifiers(t *testing.T) {
	res := Classify("honestly I want to die")
	assert.Equal(t, Crisis, res.Level)
	assert.Contains(t, res.Reasons, "suicidal-ideation")
	for _, reason := range res.Reasons {
		assert.False(t, strings.Contains(reason, "die"), "reason must not echo user text")
	}
}

func TestClassifyMultipleReasonsOrdered(t *testing.T) {
	res := Classify("I want to die and I have a plan")
	assert.Equal(t, Crisis, res.Level)
	assert.Equal(t, []string{"suicidal-ideation", "explicit-plan"}, res.Reasons)
}

func TestClassifyDistress(t *testing.T) {
	for _, text := range []string{
		"I feel so hopeless about everything",
		"I had a panic attack this morning",
		"i just can't cope anymore",
		"completely overwhelmed by deadlines",
	} {
		res := Classify(text)
		assert.Equal(t, Distress, res.Level, "text: %s", text)
		assert.Empty(t, res.Reasons)
	}
}

func TestClassifyCrisisTakesPrecedenceOverAmber(t *testing.T) {
	res := Classify("I feel hopeless and I want to die")
	assert.Equal(t, Crisis, res.Level)
}

func TestClassifyNone(t *testing.T) {
	for _, text := range []string{"", "   ", "what a lovely afternoon", "tell me a joke"} {
		res := Classify(text)
		assert.Equal(t, None, res.Level, "text: %q", text)
		assert.Empty(t, res.Reasons)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "I want to die"
	first := Classify(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestCrisisMessageListsHelplines(t *testing.T) {
	msg := CrisisMessage()
	assert.Contains(t, msg, "1800-599-0019")
	assert.Contains(t, msg, "9152987821")
	assert.Contains(t, msg, "112")
}
