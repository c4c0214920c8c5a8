package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatservice "github.com/moodmate/backend/internal/service/chat"
	"github.com/moodmate/backend/internal/service/session"
	"github.com/moodmate/backend/pkg/utils"
)

// Handler exposes session lifecycle and chat endpoints.
type Handler struct {
	orch     *chatservice.Orchestrator
	sessions *session.Store
	logger   *zap.Logger
}

// New creates the chat handler.
func New(orch *chatservice.Orchestrator, sessions *session.Store, logger *zap.Logger) *Handler {
	return &Handler{orch: orch, sessions: sessions, logger: logger}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session/start", h.handleSessionStart)
	r.Post("/chat", h.handleChat)
	r.Get("/session/{sessionID}/history", h.handleHistory)
}

func (h *Handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create(r.Context())

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": sess.ID,
		"message":   h.orch.WelcomeMessage(),
	})
}

type chatRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type chatResponse struct {
	Success bool `json:"success"`
	chatservice.Result
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, utils.CodeInvalidRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, utils.CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.orch.Chat(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Success: true, Result: result})
}

func (h *Handler) respondChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatservice.ErrInvalidRequest):
		utils.RespondError(w, http.StatusBadRequest, utils.CodeInvalidRequest, "sessionId and message are required")
	case errors.Is(err, session.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, utils.CodeSessionNotFound, "session not found, please start a new session")
	default:
		h.logger.Error("chat turn failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, utils.CodeInternalError, "something went wrong on our side, please try again")
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, turns, summary, err := h.sessions.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, utils.CodeSessionNotFound, "session not found")
			return
		}
		h.logger.Error("history lookup failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, utils.CodeInternalError, "something went wrong on our side, please try again")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session":     sess,
		"chatHistory": turns,
		"moodSummary": summary,
	})
}
