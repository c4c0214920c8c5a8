package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/moodmate/backend/internal/config"
	"github.com/moodmate/backend/internal/model/chat"
)

// Request carries everything the completion backend needs for one reply:
// the persona system prompt, a bounded window of prior turns, and the
// latest user message.
type Request struct {
	System  string
	History []chat.Turn
	Query   string
}

// Service runs persona-styled completions against the configured Ark model.
// Calls go through a circuit breaker and a per-request timeout; every
// failure mode surfaces as a plain error the orchestrator treats as
// recoverable.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	breaker *gobreaker.CircuitBreaker
	cfg     config.AIConfig
	logger  *zap.Logger
}

// NewService compiles the prompt-template -> chat-model chain.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ark-completion",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("completion circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Service{
		chain:   runnable,
		breaker: breaker,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// StreamingEnabled indicates whether SSE streaming output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Complete produces one reply. The call is bounded by the configured request
// timeout; a timeout, an open breaker, or a provider error all come back as
// a single error class the caller can swallow into its fallback path.
func (s *Service) Complete(ctx context.Context, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (any, error) {
		return s.chain.Invoke(callCtx, buildChainInput(req))
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	response, ok := result.(*schema.Message)
	if !ok || response == nil {
		return "", fmt.Errorf("completion returned no message")
	}

	s.logger.Debug("generated completion", zap.Int("length", len(response.Content)))
	return response.Content, nil
}

// Stream opens a streaming completion. The breaker guards stream creation;
// the caller owns the reader and the request context bounds its lifetime.
func (s *Service) Stream(ctx context.Context, req Request) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	result, err := s.breaker.Execute(func() (any, error) {
		return s.chain.Stream(ctx, buildChainInput(req))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}

	stream, ok := result.(*schema.StreamReader[*schema.Message])
	if !ok || stream == nil {
		return nil, fmt.Errorf("completion stream unavailable")
	}
	return stream, nil
}

func buildChainInput(req Request) map[string]any {
	history := make([]*schema.Message, 0, len(req.History))
	for _, turn := range req.History {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return map[string]any{
		"system":  req.System,
		"history": history,
		"query":   req.Query,
	}
}
