package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	aiservice "github.com/moodmate/backend/internal/service/ai"
	chatservice "github.com/moodmate/backend/internal/service/chat"
	"github.com/moodmate/backend/pkg/utils"
)

// Handler streams replies over Server-Sent Events. The flow mirrors the
// non-streaming chat path exactly: triage gates the model call, and a
// completion failure degrades to the fixed fallback reply mid-stream.
type Handler struct {
	orch   *chatservice.Orchestrator
	ai     *aiservice.Service
	logger *zap.Logger
}

// New creates the stream handler.
func New(orch *chatservice.Orchestrator, ai *aiservice.Service, logger *zap.Logger) *Handler {
	return &Handler{orch: orch, ai: ai, logger: logger}
}

// HandleStreamRequest processes one chat turn over SSE. Event order:
// start, zero or more delta, message, result, end.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	prepared, err := h.orch.PrepareTurn(ctx, sessionID, userMessage)
	if err != nil {
		h.sendError(w, flusher, "could not start this turn")
		return err
	}

	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	if prepared.Crisis {
		h.finish(w, flusher, prepared.Result)
		return nil
	}

	reply, err := h.streamReply(ctx, w, flusher, prepared.Request)
	if err != nil {
		h.logger.Error("streaming completion failed",
			zap.String("session", sessionID),
			zap.Error(err))

		result, fallbackErr := h.orch.FallbackTurn(ctx, sessionID, prepared.Triage)
		if fallbackErr != nil {
			h.sendError(w, flusher, "could not finish this turn")
			return fallbackErr
		}
		h.finish(w, flusher, result)
		return nil
	}

	result, err := h.orch.CompleteTurn(ctx, sessionID, strings.TrimSpace(userMessage), reply, prepared.Triage)
	if err != nil {
		h.sendError(w, flusher, "could not finish this turn")
		return err
	}

	h.finish(w, flusher, result)
	return nil
}

// streamReply forwards completion deltas as they arrive and returns the
// concatenated reply. Falls back to a blocking completion when streaming is
// disabled by configuration.
func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, req aiservice.Request) (string, error) {
	if !h.ai.StreamingEnabled() {
		return h.ai.Complete(ctx, req)
	}

	stream, err := h.ai.Stream(ctx, req)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			utils.SendSSEEvent(w, flusher, "delta", map[string]string{"content": chunk.Content})
		}
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}
	return full.Content, nil
}

func (h *Handler) finish(w http.ResponseWriter, flusher http.Flusher, result chatservice.Result) {
	utils.SendSSEEvent(w, flusher, "message", map[string]string{"content": result.Message})
	utils.SendSSEEvent(w, flusher, "result", result)
	utils.SendSSEEvent(w, flusher, "end", map[string]bool{"finished": true})
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, message string) {
	utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": message})
}
