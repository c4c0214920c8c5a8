package analytics

import (
	"sort"
	"strings"
	"sync"

	"github.com/moodmate/backend/internal/analysis/mood"
	"github.com/moodmate/backend/internal/model/chat"
)

const minKeywordLength = 4

// DailyStat aggregates mood and message counts for one UTC calendar day.
type DailyStat struct {
	Date     string             `json:"date"`
	Moods    map[mood.Label]int `json:"moods"`
	Messages int                `json:"messages"`
}

// KeywordCount is one entry of the keyword frequency ranking.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// View is a read-only snapshot of the aggregate state.
type View struct {
	TotalMessages    int                `json:"totalMessages"`
	MoodDistribution map[mood.Label]int `json:"moodDistribution"`
	Daily            []DailyStat        `json:"daily"`
	TopKeywords      []KeywordCount     `json:"topKeywords"`
}

// Aggregator folds processed turns into rolling mood, daily, and keyword
// statistics. Every update is a plain map increment under one mutex, so the
// hot chat path is never blocked for longer than that.
type Aggregator struct {
	mu            sync.Mutex
	moodCounts    map[mood.Label]int
	daily         map[string]*DailyStat
	keywords      map[string]int
	keywordOrder  []string
	totalMessages int
	topN          int
}

// NewAggregator returns an empty aggregator reporting up to topN keywords.
func NewAggregator(topN int) *Aggregator {
	if topN <= 0 {
		topN = 10
	}
	return &Aggregator{
		moodCounts: make(map[mood.Label]int),
		daily:      make(map[string]*DailyStat),
		keywords:   make(map[string]int),
		topN:       topN,
	}
}

// Record folds one classified turn into the aggregate views. The raw message
// text feeds only the keyword table.
func (a *Aggregator) Record(sample chat.MoodSample, rawText string) {
	day := sample.Timestamp.UTC().Format("2006-01-02")
	tokens := tokenize(rawText)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalMessages++
	a.moodCounts[sample.Mood]++

	stat, ok := a.daily[day]
	if !ok {
		stat = &DailyStat{Date: day, Moods: make(map[mood.Label]int)}
		a.daily[day] = stat
	}
	stat.Messages++
	stat.Moods[sample.Mood]++

	for _, token := range tokens {
		if _, seen := a.keywords[token]; !seen {
			a.keywordOrder = append(a.keywordOrder, token)
		}
		a.keywords[token]++
	}
}

// Snapshot returns an independent copy of the aggregate state. Keywords are
// ranked by count descending, ties broken by first-seen order; daily stats
// are sorted by date ascending.
func (a *Aggregator) Snapshot() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	distribution := make(map[mood.Label]int, len(a.moodCounts))
	for label, count := range a.moodCounts {
		distribution[label] = count
	}

	daily := make([]DailyStat, 0, len(a.daily))
	for _, stat := range a.daily {
		moods := make(map[mood.Label]int, len(stat.Moods))
		for label, count := range stat.Moods {
			moods[label] = count
		}
		daily = append(daily, DailyStat{Date: stat.Date, Moods: moods, Messages: stat.Messages})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	ranked := make([]KeywordCount, 0, len(a.keywordOrder))
	for _, token := range a.keywordOrder {
		ranked = append(ranked, KeywordCount{Keyword: token, Count: a.keywords[token]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}

	return View{
		TotalMessages:    a.totalMessages,
		MoodDistribution: distribution,
		Daily:            daily,
		TopKeywords:      ranked,
	}
}

// tokenize splits on whitespace, lowercases, strips edge punctuation, and
// drops tokens too short to be meaningful keywords.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, `.,!?;:"'()[]`)
		if len(token) >= minKeywordLength {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
