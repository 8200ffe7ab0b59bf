package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

// CommentStore persists comments on shared entries.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListForEntry(ctx context.Context, entryID int64, shareToken string) ([]models.Comment, error)
}

// EntryFinder loads a diary entry by id.
type EntryFinder interface {
	FindByID(ctx context.Context, id int64) (*models.DiaryEntry, error)
}

// CommentService lets holders of a share link read and write comments.
// Ownership plays no part: only the share token counts.
type CommentService struct {
	entries  EntryFinder
	comments CommentStore
	now      func() time.Time
}

func NewCommentService(entries EntryFinder, comments CommentStore) *CommentService {
	return &CommentService{entries: entries, comments: comments, now: time.Now}
}

// List returns the comments on a shared entry, newest first.
func (s *CommentService) List(ctx context.Context, entryID int64, token string) ([]models.Comment, error) {
	if _, err := s.sharedEntry(ctx, entryID, token); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListForEntry(ctx, entryID, token)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Add stores a comment on a shared entry.
func (s *CommentService) Add(ctx context.Context, entryID int64, token, content, authorName string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	content, err := utils.RequireText("content", content, utils.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	if _, err := s.sharedEntry(ctx, entryID, token); err != nil {
		return nil, err
	}

	c := &models.Comment{
		EntryID:    entryID,
		ShareToken: token,
		AuthorName: utils.Truncate(strings.TrimSpace(authorName), utils.MaxAuthorNameLength),
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *CommentService) sharedEntry(ctx context.Context, entryID int64, token string) (*models.DiaryEntry, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if !CanUseShareToken(entry, token) {
		return nil, ErrForbidden
	}
	return entry, nil
}
