package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

// ShareHandler serves /api/share/{token}.
type ShareHandler struct {
	diary       *services.DiaryService
	frontendURL string
	log         *zap.SugaredLogger
}

func NewShareHandler(diary *services.DiaryService, frontendURL string, log *zap.SugaredLogger) *ShareHandler {
	return &ShareHandler{diary: diary, frontendURL: frontendURL, log: log}
}

// Get handles GET /api/share/{token}
func (h *ShareHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	entry, err := h.diary.GetShared(r.Context(), token)
	if err != nil {
		respondServiceError(w, h.log, err, "fetch shared diary")
		return
	}

	base := r.Header.Get("Origin")
	if base == "" {
		base = h.frontendURL
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entry":     entry,
		"shareLink": shareLink(base, token),
	})
}

func shareLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/shared/" + url.PathEscape(token)
}
