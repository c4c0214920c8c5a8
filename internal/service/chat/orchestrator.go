package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moodmate/backend/internal/analysis/mood"
	"github.com/moodmate/backend/internal/analysis/triage"
	"github.com/moodmate/backend/internal/config"
	chatModel "github.com/moodmate/backend/internal/model/chat"
	"github.com/moodmate/backend/internal/model/persona"
	"github.com/moodmate/backend/internal/service/ai"
	"github.com/moodmate/backend/internal/service/analytics"
	"github.com/moodmate/backend/internal/service/memory"
	"github.com/moodmate/backend/internal/service/session"
)

var ErrInvalidRequest = errors.New("invalid request")

// FallbackMessage is returned in place of a reply whenever the completion
// backend fails. The user never sees raw backend errors.
const FallbackMessage = "Ah, my Conversation-inator seems to be malfunctioning! *nervous laugh* " +
	"Let me recalibrate - tell me again, how are you feeling right now?"

// Completer is the opaque text-completion backend: context in, reply out.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (string, error)
}

// Config fixes the orchestration policy.
type Config struct {
	// MoodSource selects whether analytics are driven by the user's text or
	// the generated reply.
	MoodSource   string
	HistoryLimit int
}

// SessionStats summarizes the session after a processed turn.
type SessionStats struct {
	MessageCount    int        `json:"messageCount"`
	CurrentMood     mood.Label `json:"currentMood"`
	SessionDuration int64      `json:"sessionDuration"`
}

// Result is the structured outcome of one chat turn.
type Result struct {
	Message      string        `json:"message"`
	DetectedMood mood.Label    `json:"detectedMood"`
	Suggestions  []string      `json:"suggestions"`
	Triage       triage.Result `json:"triage"`
	Timestamp    time.Time     `json:"timestamp"`
	Stats        SessionStats  `json:"sessionStats"`
}

// Prepared is the outcome of the pre-model half of a turn. Either the turn
// was short-circuited by crisis triage (Result is final), or Request holds
// the composed prompt for the completion backend.
type Prepared struct {
	Crisis  bool
	Result  Result
	Request ai.Request
	Triage  triage.Result
}

// Orchestrator drives the per-request control flow: validate, triage,
// complete, classify, persist, respond.
type Orchestrator struct {
	sessions  *session.Store
	analytics *analytics.Aggregator
	memory    *memory.Store
	completer Completer
	persona   persona.Persona
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator wires the orchestrator. completer may be nil when no model
// is configured; every turn then takes the fallback path.
func NewOrchestrator(
	sessions *session.Store,
	agg *analytics.Aggregator,
	mem *memory.Store,
	completer Completer,
	p persona.Persona,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.MoodSource == "" {
		cfg.MoodSource = config.MoodSourceUser
	}
	return &Orchestrator{
		sessions:  sessions,
		analytics: agg,
		memory:    mem,
		completer: completer,
		persona:   p,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WelcomeMessage is the static greeting returned on session start.
func (o *Orchestrator) WelcomeMessage() string {
	return o.persona.OpeningLine
}

// Chat runs one full turn through the state machine.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, message string) (Result, error) {
	prepared, err := o.PrepareTurn(ctx, sessionID, message)
	if err != nil {
		return Result{}, err
	}
	if prepared.Crisis {
		return prepared.Result, nil
	}

	if o.completer == nil {
		o.logger.Warn("completion backend not configured, using fallback reply",
			zap.String("session", sessionID))
		return o.FallbackTurn(ctx, sessionID, prepared.Triage)
	}

	reply, err := o.completer.Complete(ctx, prepared.Request)
	if err != nil {
		o.logger.Error("completion backend failed",
			zap.String("session", sessionID),
			zap.Error(err))
		return o.FallbackTurn(ctx, sessionID, prepared.Triage)
	}

	return o.CompleteTurn(ctx, sessionID, strings.TrimSpace(message), reply, prepared.Triage)
}

// PrepareTurn covers the pre-model states: validation, session lookup, user
// turn append, and triage. Crisis detection is evaluated here, before any
// operation that can fail, and short-circuits the turn with the static
// safety reply.
func (o *Orchestrator) PrepareTurn(ctx context.Context, sessionID, message string) (Prepared, error) {
	message = strings.TrimSpace(message)
	if sessionID == "" || message == "" {
		return Prepared{}, ErrInvalidRequest
	}

	if _, err := o.sessions.Get(ctx, sessionID); err != nil {
		return Prepared{}, err
	}

	if _, err := o.sessions.AppendTurn(ctx, sessionID, chatModel.Turn{
		Role:    chatModel.RoleUser,
		Content: message,
	}); err != nil {
		return Prepared{}, err
	}

	tri := triage.Classify(message)
	if tri.Level == triage.Crisis {
		result, err := o.crisisTurn(ctx, sessionID, tri)
		if err != nil {
			return Prepared{}, err
		}
		return Prepared{Crisis: true, Result: result, Triage: tri}, nil
	}

	request, err := o.composePrompt(ctx, sessionID, message, tri)
	if err != nil {
		return Prepared{}, err
	}

	return Prepared{Request: request, Triage: tri}, nil
}

// CompleteTurn covers the post-model states: mood classification per the
// configured policy, assistant turn append, session and analytics updates.
func (o *Orchestrator) CompleteTurn(ctx context.Context, sessionID, userMessage, reply string, tri triage.Result) (Result, error) {
	source := userMessage
	if o.cfg.MoodSource == config.MoodSourceReply {
		source = reply
	}
	detected := mood.Classify(source)
	now := o.now().UTC()

	if _, err := o.sessions.AppendTurn(ctx, sessionID, chatModel.Turn{
		Role:    chatModel.RoleAssistant,
		Content: reply,
		Mood:    detected,
	}); err != nil {
		return Result{}, err
	}

	sample := chatModel.MoodSample{Mood: detected, Text: source, Timestamp: now}
	if err := o.sessions.UpdateMood(ctx, sessionID, sample); err != nil {
		return Result{}, err
	}
	o.analytics.Record(sample, userMessage)

	if name, ok := memory.ExtractName(userMessage); ok {
		o.memory.Save(sessionID, map[string]string{"name": name})
	}

	stats, err := o.sessionStats(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Message:      reply,
		DetectedMood: detected,
		Suggestions:  SuggestionsFor(detected),
		Triage:       tri,
		Timestamp:    now,
		Stats:        stats,
	}, nil
}

// FallbackTurn closes a turn whose completion call failed: fixed in-character
// reply, neutral mood, no analytics. The failure itself was already logged.
func (o *Orchestrator) FallbackTurn(ctx context.Context, sessionID string, tri triage.Result) (Result, error) {
	if _, err := o.sessions.AppendTurn(ctx, sessionID, chatModel.Turn{
		Role:    chatModel.RoleAssistant,
		Content: FallbackMessage,
	}); err != nil {
		return Result{}, err
	}

	stats, err := o.sessionStats(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Message:      FallbackMessage,
		DetectedMood: mood.Neutral,
		Suggestions:  SuggestionsFor(mood.Neutral),
		Triage:       tri,
		Timestamp:    o.now().UTC(),
		Stats:        stats,
	}, nil
}

// crisisTurn handles the short-circuit branch: static safety message, no
// model call, no analytics, session mood left unchanged.
func (o *Orchestrator) crisisTurn(ctx context.Context, sessionID string, tri triage.Result) (Result, error) {
	message := triage.CrisisMessage()

	if _, err := o.sessions.AppendTurn(ctx, sessionID, chatModel.Turn{
		Role:    chatModel.RoleAssistant,
		Content: message,
	}); err != nil {
		return Result{}, err
	}

	stats, err := o.sessionStats(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	o.logger.Info("crisis short-circuit",
		zap.String("session", sessionID),
		zap.Strings("reasons", tri.Reasons))

	return Result{
		Message:      message,
		DetectedMood: stats.CurrentMood,
		Suggestions:  CrisisSuggestions(),
		Triage:       tri,
		Timestamp:    o.now().UTC(),
		Stats:        stats,
	}, nil
}

// composePrompt builds the outbound request: persona preamble, bounded prior
// turns, and the latest message. The window excludes the user turn appended
// this request since it travels as the query.
func (o *Orchestrator) composePrompt(ctx context.Context, sessionID, message string, tri triage.Result) (ai.Request, error) {
	_, turns, _, err := o.sessions.History(ctx, sessionID)
	if err != nil {
		return ai.Request{}, err
	}
	if n := len(turns); n > 0 && turns[n-1].Role == chatModel.RoleUser && turns[n-1].Content == message {
		turns = turns[:n-1]
	}
	if len(turns) > o.cfg.HistoryLimit {
		turns = turns[len(turns)-o.cfg.HistoryLimit:]
	}

	userName := o.memory.Load(sessionID)["name"]
	system := ai.BuildSystemPrompt(o.persona, userName)
	if tri.Level == triage.Distress {
		system += "\n\nThe user sounds distressed. Respond with extra care, acknowledge the difficulty, and gently suggest one grounding step."
	}

	return ai.Request{System: system, History: turns, Query: message}, nil
}

func (o *Orchestrator) sessionStats(ctx context.Context, sessionID string) (SessionStats, error) {
	sess, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return SessionStats{}, err
	}
	return SessionStats{
		MessageCount:    sess.MessageCount,
		CurrentMood:     sess.CurrentMood,
		SessionDuration: o.now().UTC().Sub(sess.CreatedAt).Milliseconds(),
	}, nil
}
