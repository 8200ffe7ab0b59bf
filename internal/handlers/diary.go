package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

// DiaryHandler serves /api/diary.
type DiaryHandler struct {
	diary    *services.DiaryService
	feedback *services.FeedbackService
	generate services.FeedbackFunc
	log      *zap.SugaredLogger
}

func NewDiaryHandler(diary *services.DiaryService, feedback *services.FeedbackService, generate services.FeedbackFunc, log *zap.SugaredLogger) *DiaryHandler {
	return &DiaryHandler{diary: diary, feedback: feedback, generate: generate, log: log}
}

// Create handles POST /api/diary
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateEntryInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	entry, err := h.diary.Create(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, h.log, err, "save diary entry")
		return
	}

	h.log.Infow("Diary entry created", "id", entry.ID, "visibility", entry.Visibility)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Diary entry saved successfully!",
		"entry":   entry,
	})
}

// List handles GET /api/diary
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.diary.List(r.Context(), middleware.UserID(r.Context()), q.Get("visibility"), page, limit)
	if err != nil {
		respondServiceError(w, h.log, err, "fetch diary entries")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get handles GET /api/diary/{id}?token=
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	entry, access, err := h.diary.Get(r.Context(), id, middleware.UserID(r.Context()), r.URL.Query().Get("token"))
	if err != nil {
		respondServiceError(w, h.log, err, "fetch diary entry")
		return
	}

	h.log.Debugw("Diary entry read", "id", id, "access", access.String())
	respondJSON(w, http.StatusOK, entry)
}

// Update handles PUT /api/diary/{id}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	var req services.UpdateEntryInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	entry, err := h.diary.Update(r.Context(), middleware.UserID(r.Context()), id, req)
	if err != nil {
		respondServiceError(w, h.log, err, "update diary entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/diary/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	if err := h.diary.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		respondServiceError(w, h.log, err, "delete diary entry")
		return
	}

	h.log.Infow("Diary entry deleted", "id", id)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Diary entry deleted"})
}

// Feedback handles POST /api/diary/{id}/ai-feedback
func (h *DiaryHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	var req services.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	result, err := h.feedback.Request(r.Context(), id, req, h.generate)
	if errors.Is(err, services.ErrGenerationFailed) {
		h.log.Errorw("AI feedback generation failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate AI feedback", "Please try again.")
		return
	}
	if err != nil {
		respondServiceError(w, h.log, err, "generate AI feedback")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
