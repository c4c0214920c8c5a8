package chat_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moodmate/backend/internal/analysis/mood"
	"github.com/moodmate/backend/internal/analysis/triage"
	"github.com/moodmate/backend/internal/config"
	"github.com/moodmate/backend/internal/model/persona"
	"github.com/moodmate/backend/internal/service/ai"
	"github.com/moodmate/backend/internal/service/analytics"
	chatservice "github.com/moodmate/backend/internal/service/chat"
	"github.com/moodmate/backend/internal/service/memory"
	"github.com/moodmate/backend/internal/service/session"
)

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	lastReq ai.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fixture struct {
	orch      *chatservice.Orchestrator
	sessions  *session.Store
	analytics *analytics.Aggregator
	completer *fakeCompleter
}

func newFixture(t *testing.T, cfg chatservice.Config) fixture {
	t.Helper()
	sessions := session.NewStore(zap.NewNop())
	agg := analytics.NewAggregator(10)
	mem := memory.NewStore(filepath.Join(t.TempDir(), "memory.json"), zap.NewNop())
	completer := &fakeCompleter{reply: "Ah, excellent question! Let us tackle it together."}
	orch := chatservice.NewOrchestrator(sessions, agg, mem, completer, persona.Default(), cfg, zap.NewNop())
	return fixture{orch: orch, sessions: sessions, analytics: agg, completer: completer}
}

func TestChatInvalidRequest(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	_, err := f.orch.Chat(ctx, "", "hello")
	assert.ErrorIs(t, err, chatservice.ErrInvalidRequest)

	_, err = f.orch.Chat(ctx, sess.ID, "   ")
	assert.ErrorIs(t, err, chatservice.ErrInvalidRequest)
	assert.Zero(t, f.completer.calls)
}

func TestChatUnknownSession(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	_, err := f.orch.Chat(context.Background(), "no-such-session", "hello")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestChatCrisisShortCircuit(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	result, err := f.orch.Chat(ctx, sess.ID, "I want to die")
	require.NoError(t, err)

	assert.Equal(t, triage.Crisis, result.Triage.Level)
	assert.Contains(t, result.Message, "1800-599-0019", "crisis reply must carry a helpline")
	assert.Zero(t, f.completer.calls, "no call may reach the completion backend")
	assert.NotEmpty(t, result.Suggestions)

	// Session mood stays at its sentinel; crisis text never reaches analytics.
	got, turns, _, err := f.sessions.History(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, mood.Neutral, got.CurrentMood)
	assert.Equal(t, 1, got.MessageCount)
	require.Len(t, turns, 2)
	view := f.analytics.Snapshot()
	assert.Zero(t, view.TotalMessages)
	assert.Empty(t, view.TopKeywords)
}

func TestChatStressedHappyPath(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	result, err := f.orch.Chat(ctx, sess.ID, "I'm so stressed about exams")
	require.NoError(t, err)

	assert.Equal(t, f.completer.reply, result.Message)
	assert.Equal(t, mood.Stressed, result.DetectedMood)
	assert.GreaterOrEqual(t, len(result.Suggestions), 3)
	assert.LessOrEqual(t, len(result.Suggestions), 4)
	assert.Equal(t, triage.None, result.Triage.Level)
	assert.Equal(t, 1, result.Stats.MessageCount)
	assert.Equal(t, mood.Stressed, result.Stats.CurrentMood)
	assert.GreaterOrEqual(t, result.Stats.SessionDuration, int64(0))

	view := f.analytics.Snapshot()
	assert.Equal(t, 1, view.MoodDistribution[mood.Stressed])
}

func TestChatCompletionFailureFallsBack(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	f.completer.err = errors.New("upstream exploded: 502 bad gateway")
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	result, err := f.orch.Chat(ctx, sess.ID, "I'm so stressed about exams")
	require.NoError(t, err, "backend failures never surface to the caller")

	assert.Equal(t, chatservice.FallbackMessage, result.Message)
	assert.Equal(t, mood.Neutral, result.DetectedMood)
	assert.NotContains(t, result.Message, "502", "raw error text must not leak")

	// Fallback turns stay out of analytics.
	assert.Zero(t, f.analytics.Snapshot().TotalMessages)
}

func TestChatNilCompleterFallsBack(t *testing.T) {
	sessions := session.NewStore(zap.NewNop())
	agg := analytics.NewAggregator(10)
	mem := memory.NewStore("", zap.NewNop())
	orch := chatservice.NewOrchestrator(sessions, agg, mem, nil, persona.Default(), chatservice.Config{}, zap.NewNop())

	ctx := context.Background()
	sess := sessions.Create(ctx)
	result, err := orch.Chat(ctx, sess.ID, "good afternoon")
	require.NoError(t, err)
	assert.Equal(t, chatservice.FallbackMessage, result.Message)
}

func TestChatHistoryWindowIsBounded(t *testing.T) {
	f := newFixture(t, chatservice.Config{HistoryLimit: 4})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	for i := 0; i < 6; i++ {
		_, err := f.orch.Chat(ctx, sess.ID, "tell me something interesting")
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, len(f.completer.lastReq.History), 4)
	assert.Equal(t, "tell me something interesting", f.completer.lastReq.Query)
}

func TestChatMoodFromReplyPolicy(t *testing.T) {
	f := newFixture(t, chatservice.Config{MoodSource: config.MoodSourceReply})
	f.completer.reply = "What a happy, wonderful thing to hear!"
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	result, err := f.orch.Chat(ctx, sess.ID, "the meeting is at noon")
	require.NoError(t, err)
	assert.Equal(t, mood.Happy, result.DetectedMood)
}

func TestChatRemembersDisclosedName(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	_, err := f.orch.Chat(ctx, sess.ID, "hello, my name is Alice")
	require.NoError(t, err)

	_, err = f.orch.Chat(ctx, sess.ID, "what should we talk about today")
	require.NoError(t, err)
	assert.Contains(t, f.completer.lastReq.System, "Alice")
}

func TestChatDistressAddsPromptGuidance(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	ctx := context.Background()
	sess := f.sessions.Create(ctx)

	result, err := f.orch.Chat(ctx, sess.ID, "everything feels hopeless lately")
	require.NoError(t, err)
	assert.Equal(t, triage.Distress, result.Triage.Level)
	assert.Contains(t, f.completer.lastReq.System, "distressed")
}

func TestWelcomeMessage(t *testing.T) {
	f := newFixture(t, chatservice.Config{})
	assert.Equal(t, persona.Default().OpeningLine, f.orch.WelcomeMessage())
}
