package analytics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	analyticsservice "github.com/moodmate/backend/internal/service/analytics"
	"github.com/moodmate/backend/internal/service/session"
	"github.com/moodmate/backend/pkg/utils"
)

// Handler serves read-only analytics views and the liveness probe.
type Handler struct {
	analytics *analyticsservice.Aggregator
	sessions  *session.Store
}

// New creates the analytics handler.
func New(agg *analyticsservice.Aggregator, sessions *session.Store) *Handler {
	return &Handler{analytics: agg, sessions: sessions}
}

// RegisterRoutes mounts the analytics and health routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics/mood", h.handleMood)
	r.Get("/analytics/trends", h.handleTrends)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleMood(w http.ResponseWriter, _ *http.Request) {
	view := h.analytics.Snapshot()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"totalMessages":    view.TotalMessages,
		"moodDistribution": view.MoodDistribution,
	})
}

func (h *Handler) handleTrends(w http.ResponseWriter, _ *http.Request) {
	view := h.analytics.Snapshot()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"daily":       view.Daily,
		"topKeywords": view.TopKeywords,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"timestamp":      time.Now().UTC(),
		"activeSessions": h.sessions.Count(),
	})
}
