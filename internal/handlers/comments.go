package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

// CommentHandler serves /api/diary/{id}/comments.
type CommentHandler struct {
	comments *services.CommentService
	log      *zap.SugaredLogger
}

func NewCommentHandler(comments *services.CommentService, log *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type createCommentRequest struct {
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
}

// List handles GET /api/diary/{id}/comments?token=
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	comments, err := h.comments.List(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		respondServiceError(w, h.log, err, "fetch comments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Create handles POST /api/diary/{id}/comments?token=
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.EntryIDFrom(r.Context())

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	comment, err := h.comments.Add(r.Context(), id, r.URL.Query().Get("token"), req.Content, req.AuthorName)
	if err != nil {
		respondServiceError(w, h.log, err, "add comment")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}
