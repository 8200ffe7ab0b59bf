package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
)

type mockDiaryStore struct{ mock.Mock }

func (m *mockDiaryStore) Create(ctx context.Context, e *models.DiaryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockDiaryStore) FindByID(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*models.DiaryEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDiaryStore) FindShared(ctx context.Context, token string) (*models.DiaryEntry, error) {
	args := m.Called(ctx, token)
	if e, ok := args.Get(0).(*models.DiaryEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDiaryStore) ListByUser(ctx context.Context, userID, visibility string, skip, limit int64) ([]models.DiaryEntry, int64, error) {
	args := m.Called(ctx, userID, visibility, skip, limit)
	if v, ok := args.Get(0).([]models.DiaryEntry); ok {
		return v, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockDiaryStore) Update(ctx context.Context, id int64, changes repository.DiaryChanges, now time.Time) (*models.DiaryEntry, error) {
	args := m.Called(ctx, id, changes, now)
	if e, ok := args.Get(0).(*models.DiaryEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDiaryStore) SetEmotionAnalysis(ctx context.Context, id int64, emotions map[string]float64) error {
	return m.Called(ctx, id, emotions).Error(0)
}

func (m *mockDiaryStore) SetFeedbackIfUnset(ctx context.Context, id int64, feedback string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, feedback, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockDiaryStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ DiaryStore    = (*mockDiaryStore)(nil)
	_ FeedbackStore = (*mockDiaryStore)(nil)
)

type mockAssistant struct{ mock.Mock }

func (m *mockAssistant) Title(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockAssistant) Emoji(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockAssistant) AnalyzeEmotions(ctx context.Context, text string) (map[string]float64, error) {
	args := m.Called(ctx, text)
	if v, ok := args.Get(0).(map[string]float64); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ Assistant = (*mockAssistant)(nil)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) UpsertLogin(ctx context.Context, p models.OAuthProfile, now time.Time) (*models.User, error) {
	args := m.Called(ctx, p, now)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ UserStore = (*mockUserStore)(nil)

type mockEmotionStore struct{ mock.Mock }

func (m *mockEmotionStore) Upsert(ctx context.Context, a *models.EmotionAnalysis) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockEmotionStore) Latest(ctx context.Context, userID string, limit int64) ([]models.EmotionAnalysis, error) {
	args := m.Called(ctx, userID, limit)
	if v, ok := args.Get(0).([]models.EmotionAnalysis); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEmotionStore) AllForUser(ctx context.Context, userID string) ([]models.EmotionAnalysis, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]models.EmotionAnalysis); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEmotionStore) DeleteByDiary(ctx context.Context, diaryID int64) error {
	return m.Called(ctx, diaryID).Error(0)
}

var _ EmotionStore = (*mockEmotionStore)(nil)

type mockCommentStore struct{ mock.Mock }

func (m *mockCommentStore) Create(ctx context.Context, c *models.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCommentStore) ListForEntry(ctx context.Context, entryID int64, shareToken string) ([]models.Comment, error) {
	args := m.Called(ctx, entryID, shareToken)
	if v, ok := args.Get(0).([]models.Comment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ CommentStore = (*mockCommentStore)(nil)
