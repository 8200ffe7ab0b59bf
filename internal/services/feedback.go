package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
)

// FeedbackFunc produces feedback text for a diary entry and its emotion.
type FeedbackFunc func(ctx context.Context, entry, emotion string) (string, error)

// FeedbackStore is the storage the write-once feedback flow needs.
type FeedbackStore interface {
	FindByID(ctx context.Context, id int64) (*models.DiaryEntry, error)
	SetFeedbackIfUnset(ctx context.Context, id int64, feedback string, at time.Time) (bool, error)
}

// FeedbackResult is returned whether the feedback was just generated or
// already stored. Locked is always true once a result exists.
type FeedbackResult struct {
	Feedback string     `json:"feedback"`
	Locked   bool       `json:"locked"`
	At       *time.Time `json:"at"`
}

// FeedbackRequest carries optional overrides for the text sent to the
// generator. nil means use the stored value.
type FeedbackRequest struct {
	Entry   *string `json:"entry"`
	Emotion *string `json:"emotion"`
}

// FeedbackService generates AI feedback for an entry at most once.
type FeedbackService struct {
	store FeedbackStore
	now   func() time.Time
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store, now: time.Now}
}

// Request returns the entry's feedback, generating and storing it first if
// the entry has none. The stored value is set with a conditional update, so
// when two requests race only one text is ever persisted and both callers
// see that one.
func (s *FeedbackService) Request(ctx context.Context, id int64, req FeedbackRequest, generate FeedbackFunc) (*FeedbackResult, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.HasFeedback() {
		return lockedResult(entry), nil
	}

	text, emotion := entry.Entry, entry.Emotion
	if req.Entry != nil {
		text = *req.Entry
	}
	if req.Emotion != nil {
		emotion = *req.Emotion
	}

	feedback, err := generate(ctx, text, emotion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if feedback == "" {
		return nil, fmt.Errorf("%w: empty feedback", ErrGenerationFailed)
	}

	at := s.now().UTC()
	stored, err := s.store.SetFeedbackIfUnset(ctx, id, feedback, at)
	if err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}
	if stored {
		return &FeedbackResult{Feedback: feedback, Locked: true, At: &at}, nil
	}

	// Lost the race (or the entry vanished): report whatever is stored now.
	entry, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.HasFeedback() {
		return nil, fmt.Errorf("store feedback: entry %d not updated", id)
	}
	return lockedResult(entry), nil
}

func (s *FeedbackService) load(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	entry, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	return entry, nil
}

func lockedResult(e *models.DiaryEntry) *FeedbackResult {
	return &FeedbackResult{Feedback: e.AIFeedback, Locked: true, At: e.AIFeedbackAt}
}
