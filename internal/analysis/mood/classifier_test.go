package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyIsNeutral(t *testing.T) {
	assert.Equal(t, Neutral, Classify(""))
	assert.Equal(t, Neutral, Classify("   \n\t"))
}

func TestClassifyNoKeywordIsNeutral(t *testing.T) {
	assert.Equal(t, Neutral, Classify("the weather report said rain tomorrow"))
}

func TestClassifyBasicLabels(t *testing.T) {
	cases := map[string]Label{
		"I'm so stressed about exams":          Stressed,
		"feeling really happy and great today": Happy,
		"i am sad and lonely":                  Sad,
		"this makes me so angry and furious":   Angry,
		"honestly I'm just confused":           Confused,
	}
	for text, want := range cases {
		assert.Equal(t, want, Classify(text), "text: %s", text)
	}
}

func TestClassifyWholeWordOnly(t *testing.T) {
	// "mad" inside "made" must not count as anger.
	assert.Equal(t, Neutral, Classify("we made progress on the project"))
	assert.Equal(t, Angry, Classify("I'm mad about it"))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	assert.Equal(t, Stressed, Classify("SO STRESSED RIGHT NOW"))
}

func TestClassifyTieBreaksBySafetyPriority(t *testing.T) {
	// One sad keyword and one happy keyword: sad outranks happy.
	assert.Equal(t, Sad, Classify("happy yet lonely"))
	// One stressed and one angry: stressed outranks angry.
	assert.Equal(t, Stressed, Classify("worried and annoyed"))
}

func TestClassifyStrictlyHighestWins(t *testing.T) {
	assert.Equal(t, Happy, Classify("sad but mostly happy, great, awesome"))
}

func TestClassifyIdempotent(t *testing.T) {
	text := "worried about the pressure of exams"
	first := Classify(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(Stressed))
	assert.False(t, Known(Label("ecstatic")))
}
