package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	analyticshandler "github.com/moodmate/backend/internal/handler/analytics"
	chathandler "github.com/moodmate/backend/internal/handler/chat"
	streamhandler "github.com/moodmate/backend/internal/handler/stream"
	"github.com/moodmate/backend/internal/middleware"
	aiservice "github.com/moodmate/backend/internal/service/ai"
	analyticsservice "github.com/moodmate/backend/internal/service/analytics"
	chatservice "github.com/moodmate/backend/internal/service/chat"
	"github.com/moodmate/backend/internal/service/session"
	"github.com/moodmate/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when no
// completion backend is configured; the streaming endpoint is then disabled
// while regular chat degrades to the fallback reply.
func NewRouter(
	orch *chatservice.Orchestrator,
	sessions *session.Store,
	agg *analyticsservice.Aggregator,
	aiSvc *aiservice.Service,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS)

	chatHandler := chathandler.New(orch, sessions, logger)
	analyticsHandler := analyticshandler.New(agg, sessions)

	var streamHandler *streamhandler.Handler
	if aiSvc != nil {
		streamHandler = streamhandler.New(orch, aiSvc, logger)
	}

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		analyticsHandler.RegisterRoutes(api)

		api.Get("/chat/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			if streamHandler == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, utils.CodeInternalError, "streaming unavailable")
				return
			}

			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, utils.CodeInvalidRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				logger.Error("stream request failed", zap.Error(err))
			}
		})
	})

	return r
}
