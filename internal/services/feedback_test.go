package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
)

type generatorSpy struct {
	calls   int
	entry   string
	emotion string
	out     string
	err     error
}

func (g *generatorSpy) generate(_ context.Context, entry, emotion string) (string, error) {
	g.calls++
	g.entry, g.emotion = entry, emotion
	return g.out, g.err
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
}

func newFeedbackService(store FeedbackStore) *FeedbackService {
	s := NewFeedbackService(store)
	s.now = fixedNow
	return s
}

func TestFeedback_AlreadyStoredSkipsGeneration(t *testing.T) {
	at := fixedNow().Add(-time.Hour)
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(42)).
		Return(&models.DiaryEntry{ID: 42, AIFeedback: "already generated", AIFeedbackAt: &at}, nil)

	gen := &generatorSpy{out: "new text"}
	res, err := newFeedbackService(store).Request(context.Background(), 42, FeedbackRequest{}, gen.generate)
	require.NoError(t, err)

	assert.Equal(t, "already generated", res.Feedback)
	assert.True(t, res.Locked)
	assert.Equal(t, &at, res.At)
	assert.Zero(t, gen.calls)
	store.AssertNotCalled(t, "SetFeedbackIfUnset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeedback_GeneratesOnceAndStores(t *testing.T) {
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(7)).
		Return(&models.DiaryEntry{ID: 7, Entry: "stored text", Emotion: "😊"}, nil)
	store.On("SetFeedbackIfUnset", mock.Anything, int64(7), "well done", fixedNow()).Return(true, nil)

	gen := &generatorSpy{out: "well done"}
	res, err := newFeedbackService(store).Request(context.Background(), 7, FeedbackRequest{}, gen.generate)
	require.NoError(t, err)

	assert.Equal(t, "well done", res.Feedback)
	assert.True(t, res.Locked)
	require.NotNil(t, res.At)
	assert.Equal(t, fixedNow(), *res.At)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "stored text", gen.entry)
	assert.Equal(t, "😊", gen.emotion)
	store.AssertExpectations(t)
}

func TestFeedback_OverridesReachGenerator(t *testing.T) {
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(7)).
		Return(&models.DiaryEntry{ID: 7, Entry: "stored text", Emotion: "😊"}, nil)
	store.On("SetFeedbackIfUnset", mock.Anything, int64(7), "ok", mock.Anything).Return(true, nil)

	text, emotion := "draft text", "😢"
	gen := &generatorSpy{out: "ok"}
	_, err := newFeedbackService(store).Request(context.Background(), 7,
		FeedbackRequest{Entry: &text, Emotion: &emotion}, gen.generate)
	require.NoError(t, err)

	assert.Equal(t, "draft text", gen.entry)
	assert.Equal(t, "😢", gen.emotion)
}

func TestFeedback_NotFound(t *testing.T) {
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	gen := &generatorSpy{out: "x"}
	_, err := newFeedbackService(store).Request(context.Background(), 404, FeedbackRequest{}, gen.generate)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Zero(t, gen.calls)
}

func TestFeedback_GeneratorFailureLeavesStateUnset(t *testing.T) {
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(7)).Return(&models.DiaryEntry{ID: 7, Entry: "e"}, nil)

	gen := &generatorSpy{err: errors.New("upstream 503")}
	_, err := newFeedbackService(store).Request(context.Background(), 7, FeedbackRequest{}, gen.generate)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	store.AssertNotCalled(t, "SetFeedbackIfUnset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Empty output counts as failure too.
	gen = &generatorSpy{out: ""}
	_, err = newFeedbackService(store).Request(context.Background(), 7, FeedbackRequest{}, gen.generate)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestFeedback_LostRaceReturnsWinner(t *testing.T) {
	winnerAt := fixedNow().Add(-time.Second)
	store := &mockDiaryStore{}
	store.On("FindByID", mock.Anything, int64(7)).
		Return(&models.DiaryEntry{ID: 7, Entry: "e"}, nil).Once()
	store.On("SetFeedbackIfUnset", mock.Anything, int64(7), "mine", mock.Anything).Return(false, nil)
	store.On("FindByID", mock.Anything, int64(7)).
		Return(&models.DiaryEntry{ID: 7, Entry: "e", AIFeedback: "theirs", AIFeedbackAt: &winnerAt}, nil).Once()

	gen := &generatorSpy{out: "mine"}
	res, err := newFeedbackService(store).Request(context.Background(), 7, FeedbackRequest{}, gen.generate)
	require.NoError(t, err)

	assert.Equal(t, "theirs", res.Feedback)
	assert.True(t, res.Locked)
	assert.Equal(t, &winnerAt, res.At)
	store.AssertExpectations(t)
}

// memFeedbackStore keeps one entry in memory and applies the same
// conditional update the Mongo repository does.
type memFeedbackStore struct {
	mu     sync.Mutex
	entry  models.DiaryEntry
	writes int
}

func (m *memFeedbackStore) FindByID(_ context.Context, id int64) (*models.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.entry.ID {
		return nil, repository.ErrNotFound
	}
	e := m.entry
	return &e, nil
}

func (m *memFeedbackStore) SetFeedbackIfUnset(_ context.Context, id int64, feedback string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.entry.ID || m.entry.AIFeedback != "" {
		return false, nil
	}
	m.entry.AIFeedback = feedback
	m.entry.AIFeedbackAt = &at
	m.writes++
	return true, nil
}

func TestFeedback_SecondCallIsReadOnly(t *testing.T) {
	store := &memFeedbackStore{entry: models.DiaryEntry{ID: 1, Entry: "e"}}
	svc := newFeedbackService(store)
	gen := &generatorSpy{out: "first"}

	first, err := svc.Request(context.Background(), 1, FeedbackRequest{}, gen.generate)
	require.NoError(t, err)
	gen.out = "second"
	svc.now = func() time.Time { return fixedNow().Add(time.Hour) }
	second, err := svc.Request(context.Background(), 1, FeedbackRequest{}, gen.generate)
	require.NoError(t, err)

	assert.Equal(t, "first", second.Feedback)
	assert.Equal(t, first.Feedback, second.Feedback)
	assert.Equal(t, *first.At, *second.At)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, store.writes)
}

func TestFeedback_ConcurrentRequestsAgree(t *testing.T) {
	store := &memFeedbackStore{entry: models.DiaryEntry{ID: 1, Entry: "e"}}
	svc := newFeedbackService(store)

	const n = 10
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gen := func(context.Context, string, string) (string, error) {
				return fmt.Sprintf("feedback-%d", i), nil
			}
			res, err := svc.Request(context.Background(), 1, FeedbackRequest{}, gen)
			if assert.NoError(t, err) {
				results[i] = res.Feedback
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.writes)
	for _, r := range results {
		assert.Equal(t, store.entry.AIFeedback, r)
	}
}
