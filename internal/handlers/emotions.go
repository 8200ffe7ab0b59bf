package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

const (
	defaultAnalysisLimit = 10
	maxAnalysisLimit     = 100
)

// EmotionHandler serves /api/emotions.
type EmotionHandler struct {
	emotions *services.EmotionService
	log      *zap.SugaredLogger
}

func NewEmotionHandler(emotions *services.EmotionService, log *zap.SugaredLogger) *EmotionHandler {
	return &EmotionHandler{emotions: emotions, log: log}
}

// Analysis handles GET /api/emotions/analysis?limit=
func (h *EmotionHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultAnalysisLimit
	}
	if limit > maxAnalysisLimit {
		limit = maxAnalysisLimit
	}

	points, err := h.emotions.Latest(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		respondServiceError(w, h.log, err, "fetch emotion analysis")
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// Stats handles GET /api/emotions/stats
func (h *EmotionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.emotions.Stats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err, "fetch emotion stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
