package analytics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodmate/backend/internal/analysis/mood"
	"github.com/moodmate/backend/internal/model/chat"
)

func sampleAt(m mood.Label, ts time.Time) chat.MoodSample {
	return chat.MoodSample{Mood: m, Timestamp: ts}
}

func TestRecordMoodDistribution(t *testing.T) {
	agg := NewAggregator(10)
	now := time.Now().UTC()

	agg.Record(sampleAt(mood.Happy, now), "")
	agg.Record(sampleAt(mood.Happy, now), "")
	agg.Record(sampleAt(mood.Sad, now), "")

	view := agg.Snapshot()
	assert.Equal(t, 2, view.MoodDistribution[mood.Happy])
	assert.Equal(t, 1, view.MoodDistribution[mood.Sad])
	assert.Equal(t, 3, view.TotalMessages)
}

func TestRecordDailyStats(t *testing.T) {
	agg := NewAggregator(10)
	day1 := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 10, 0, 0, time.UTC)

	agg.Record(sampleAt(mood.Stressed, day1), "exams")
	agg.Record(sampleAt(mood.Happy, day2), "results")
	agg.Record(sampleAt(mood.Happy, day2), "celebration")

	view := agg.Snapshot()
	require.Len(t, view.Daily, 2)
	assert.Equal(t, "2025-03-01", view.Daily[0].Date)
	assert.Equal(t, 1, view.Daily[0].Messages)
	assert.Equal(t, "2025-03-02", view.Daily[1].Date)
	assert.Equal(t, 2, view.Daily[1].Messages)
	assert.Equal(t, 2, view.Daily[1].Moods[mood.Happy])
}

func TestKeywordFrequencyIgnoresShortTokens(t *testing.T) {
	agg := NewAggregator(10)
	now := time.Now().UTC()

	agg.Record(sampleAt(mood.Neutral, now), "I am so very stressed about exams")

	view := agg.Snapshot()
	got := make(map[string]int)
	for _, kw := range view.TopKeywords {
		got[kw.Keyword] = kw.Count
	}
	assert.Equal(t, 1, got["very"])
	assert.Equal(t, 1, got["stressed"])
	assert.Equal(t, 1, got["about"])
	assert.Equal(t, 1, got["exams"])
	assert.NotContains(t, got, "i")
	assert.NotContains(t, got, "am")
	assert.NotContains(t, got, "so")
}

func TestKeywordTokenizationStripsPunctuation(t *testing.T) {
	agg := NewAggregator(10)
	now := time.Now().UTC()

	agg.Record(sampleAt(mood.Neutral, now), "Exams! exams, EXAMS.")

	view := agg.Snapshot()
	require.Len(t, view.TopKeywords, 1)
	assert.Equal(t, "exams", view.TopKeywords[0].Keyword)
	assert.Equal(t, 3, view.TopKeywords[0].Count)
}

func TestTopKeywordsRankingAndTieBreak(t *testing.T) {
	agg := NewAggregator(2)
	now := time.Now().UTC()

	agg.Record(sampleAt(mood.Neutral, now), "alpha beta")
	agg.Record(sampleAt(mood.Neutral, now), "beta gamma")
	agg.Record(sampleAt(mood.Neutral, now), "gamma delta")

	view := agg.Snapshot()
	require.Len(t, view.TopKeywords, 2)
	// beta and gamma both count 2; beta was seen first.
	assert.Equal(t, "beta", view.TopKeywords[0].Keyword)
	assert.Equal(t, "gamma", view.TopKeywords[1].Keyword)
}

func TestSnapshotIsACopy(t *testing.T) {
	agg := NewAggregator(10)
	now := time.Now().UTC()
	agg.Record(sampleAt(mood.Happy, now), "sunshine")

	view := agg.Snapshot()
	view.MoodDistribution[mood.Happy] = 99

	again := agg.Snapshot()
	assert.Equal(t, 1, again.MoodDistribution[mood.Happy])
}

func TestRecordConcurrent(t *testing.T) {
	agg := NewAggregator(10)
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				agg.Record(sampleAt(mood.Happy, now), "sunshine everywhere")
				_ = agg.Snapshot()
			}
		}()
	}
	wg.Wait()

	view := agg.Snapshot()
	assert.Equal(t, 800, view.TotalMessages)
	assert.Equal(t, 800, view.MoodDistribution[mood.Happy])
}
