package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	defaultAuthorName = "Anonymous"
	diaryDateLayout   = "2006. 01. 02. 15:04"
)

// DiaryStore persists diary entries.
type DiaryStore interface {
	Create(ctx context.Context, e *models.DiaryEntry) error
	FindByID(ctx context.Context, id int64) (*models.DiaryEntry, error)
	FindShared(ctx context.Context, token string) (*models.DiaryEntry, error)
	ListByUser(ctx context.Context, userID, visibility string, skip, limit int64) ([]models.DiaryEntry, int64, error)
	Update(ctx context.Context, id int64, changes repository.DiaryChanges, now time.Time) (*models.DiaryEntry, error)
	SetEmotionAnalysis(ctx context.Context, id int64, emotions map[string]float64) error
	SetFeedbackIfUnset(ctx context.Context, id int64, feedback string, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// CreateEntryInput is a new diary entry as submitted by its author.
type CreateEntryInput struct {
	Entry      string `json:"entry"`
	Visibility string `json:"visibility"`
	Title      string `json:"title"`
	UseAITitle *bool  `json:"useAITitle"`
	AuthorName string `json:"authorName"`
}

// UpdateEntryInput lists the fields to change; nil leaves a field as is.
type UpdateEntryInput struct {
	Title      *string `json:"title"`
	Entry      *string `json:"entry"`
	Emotion    *string `json:"emotion"`
	UseAITitle bool    `json:"useAITitle"`
	Visibility *string `json:"visibility"`
}

// EntryPage is one page of a user's entries.
type EntryPage struct {
	Entries    []models.DiaryEntry `json:"entries"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
}

// DiaryService implements the diary operations on top of the stores and
// the language model.
type DiaryService struct {
	store    DiaryStore
	users    UserStore
	ai       Assistant
	emotions *EmotionService
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewDiaryService(store DiaryStore, users UserStore, ai Assistant, emotions *EmotionService, log *zap.SugaredLogger) *DiaryService {
	return &DiaryService{store: store, users: users, ai: ai, emotions: emotions, log: log, now: time.Now}
}

// Create stores a new entry for userID. The title comes from the language
// model unless the author opted out; the emotion emoji always does.
func (s *DiaryService) Create(ctx context.Context, userID string, in CreateEntryInput) (*models.DiaryEntry, error) {
	text := strings.TrimSpace(in.Entry)
	if text == "" {
		return nil, ErrEntryRequired
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !models.ValidVisibility(visibility) {
		return nil, ErrInvalidVisibility
	}

	useAI := in.UseAITitle == nil || *in.UseAITitle
	var title string
	if useAI {
		generated, err := s.ai.Title(ctx, text)
		if err != nil {
			s.log.Warnw("AI title generation failed, using entry excerpt", "userId", userID, "error", err)
			generated = fallbackTitle(in.Title, text)
		}
		title = generated
	} else {
		t, err := utils.RequireText("title", in.Title, utils.MaxTitleLength)
		if err != nil {
			return nil, ErrTitleRequired
		}
		title = t
	}

	emotion := s.emoji(ctx, text, DefaultEmoji)

	now := s.now()
	entry := &models.DiaryEntry{
		UserID:     userID,
		AuthorName: s.authorName(ctx, userID, in.AuthorName),
		Title:      title,
		Date:       now.Local().Format(diaryDateLayout),
		Emotion:    emotion,
		Entry:      in.Entry,
		Visibility: visibility,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if visibility == models.VisibilityShared {
		token, err := utils.GenerateShareToken()
		if err != nil {
			return nil, fmt.Errorf("generate share token: %w", err)
		}
		entry.ShareToken = token
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.analyze(ctx, entry)
	return entry, nil
}

// List returns a page of the user's own entries, newest first.
func (s *DiaryService) List(ctx context.Context, userID, visibility string, page, limit int) (*EntryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if !models.ValidVisibility(visibility) {
		visibility = ""
	}

	entries, total, err := s.store.ListByUser(ctx, userID, visibility, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	if user, err := s.users.FindByID(ctx, userID); err == nil && user.Name != "" {
		for i := range entries {
			entries[i].AuthorName = user.Name
		}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warnw("Author lookup failed", "userId", userID, "error", err)
	}

	return &EntryPage{
		Entries:    entries,
		Total:      total,
		Page:       page,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Get returns the entry if the caller may read it. callerID is "" for an
// anonymous caller; token is the presented share token.
func (s *DiaryService) Get(ctx context.Context, id int64, callerID, token string) (*models.DiaryEntry, Access, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, AccessDenied, err
	}

	access := DecideAccess(entry, callerID, token)
	if !access.Allowed() {
		return nil, access, ErrForbidden
	}

	if user, err := s.users.FindByID(ctx, entry.UserID); err == nil && user.Name != "" {
		entry.AuthorName = user.Name
	}
	return entry, access, nil
}

// GetShared returns the currently shared entry behind token.
func (s *DiaryService) GetShared(ctx context.Context, token string) (*models.DiaryEntry, error) {
	if token == "" {
		return nil, ErrEntryNotFound
	}
	entry, err := s.store.FindShared(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shared entry: %w", err)
	}
	if user, err := s.users.FindByID(ctx, entry.UserID); err == nil && user.Name != "" {
		entry.AuthorName = user.Name
	}
	return entry, nil
}

// Update edits an entry owned by userID. The stored AI feedback is never
// part of the update.
func (s *DiaryService) Update(ctx context.Context, userID string, id int64, in UpdateEntryInput) (*models.DiaryEntry, error) {
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var changes repository.DiaryChanges
	if in.Entry != nil {
		if strings.TrimSpace(*in.Entry) == "" {
			return nil, ErrEntryRequired
		}
		changes.Entry = in.Entry
	}
	if in.Title != nil {
		t, err := utils.RequireText("title", *in.Title, utils.MaxTitleLength)
		if err != nil {
			return nil, ErrTitleRequired
		}
		changes.Title = &t
	}

	source := entry.Entry
	if in.Entry != nil {
		source = *in.Entry
	}
	switch {
	case in.UseAITitle:
		// Both or neither: on failure keep the old title and emotion.
		title, terr := s.ai.Title(ctx, source)
		emoji, eerr := s.ai.Emoji(ctx, source)
		if terr == nil && eerr == nil && emoji != "" {
			changes.Title = &title
			changes.Emotion = &emoji
		} else {
			s.log.Warnw("AI title/emotion regeneration failed, keeping previous values", "id", id, "titleError", terr, "emotionError", eerr)
		}
	case in.Entry != nil && *in.Entry != entry.Entry:
		emoji := s.emoji(ctx, source, entry.Emotion)
		changes.Emotion = &emoji
	}
	if in.Emotion != nil && strings.TrimSpace(*in.Emotion) != "" {
		changes.Emotion = in.Emotion
	}

	if in.Visibility != nil {
		if !models.ValidVisibility(*in.Visibility) {
			return nil, ErrInvalidVisibility
		}
		changes.Visibility = in.Visibility
		if *in.Visibility == models.VisibilityShared && entry.ShareToken == "" {
			token, err := utils.GenerateShareToken()
			if err != nil {
				return nil, fmt.Errorf("generate share token: %w", err)
			}
			changes.ShareToken = &token
		}
	}

	updated, err := s.store.Update(ctx, id, changes, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return updated, nil
}

// Delete removes an entry owned by userID together with its emotion analysis.
func (s *DiaryService) Delete(ctx context.Context, userID string, id int64) error {
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if err := s.emotions.Forget(ctx, entry); err != nil {
		s.log.Errorw("Failed to delete emotion analysis", "id", id, "error", err)
	}
	return nil
}

func (s *DiaryService) find(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	entry, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	return entry, nil
}

func (s *DiaryService) owned(ctx context.Context, userID string, id int64) (*models.DiaryEntry, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}
	return entry, nil
}

func (s *DiaryService) emoji(ctx context.Context, text, fallback string) string {
	emoji, err := s.ai.Emoji(ctx, text)
	if err != nil || emoji == "" {
		if err != nil {
			s.log.Warnw("AI emotion emoji failed", "error", err)
		}
		return fallback
	}
	return emoji
}

// analyze stores emotion ratios for a new entry. Failures are logged only;
// the entry itself is already saved.
func (s *DiaryService) analyze(ctx context.Context, entry *models.DiaryEntry) {
	emotions, err := s.ai.AnalyzeEmotions(ctx, entry.Entry)
	if err != nil {
		s.log.Warnw("Emotion analysis failed", "id", entry.ID, "error", err)
		return
	}
	entry.EmotionAnalysis = emotions

	if err := s.store.SetEmotionAnalysis(ctx, entry.ID, emotions); err != nil {
		s.log.Errorw("Failed to store emotion analysis on entry", "id", entry.ID, "error", err)
	}
	if err := s.emotions.Record(ctx, entry, emotions); err != nil {
		s.log.Errorw("Failed to record emotion analysis", "id", entry.ID, "error", err)
	}
}

func (s *DiaryService) authorName(ctx context.Context, userID, requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		return utils.Truncate(name, utils.MaxAuthorNameLength)
	}
	if user, err := s.users.FindByID(ctx, userID); err == nil && user.Name != "" {
		return user.Name
	}
	return defaultAuthorName
}

func fallbackTitle(requested, text string) string {
	if t := strings.TrimSpace(requested); t != "" {
		return utils.Truncate(t, utils.MaxTitleLength)
	}
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	return utils.Truncate(line, maxTitleRunes)
}
