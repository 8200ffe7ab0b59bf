package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

func TestComputeEmotionStats(t *testing.T) {
	analyses := []models.EmotionAnalysis{
		{Date: "d1", Emotions: map[string]float64{"joy": 60, "calm": 40}},
		{Date: "d2", Emotions: map[string]float64{"joy": 20, "sadness": 80}},
	}

	stats := ComputeEmotionStats(analyses)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.InDelta(t, 40, stats.AverageEmotions["joy"], 1e-9)
	assert.InDelta(t, 20, stats.AverageEmotions["calm"], 1e-9)
	assert.InDelta(t, 40, stats.AverageEmotions["sadness"], 1e-9)
	require.Len(t, stats.EmotionTrends, 2)
	assert.Equal(t, "d1", stats.EmotionTrends[0].Date)
}

func TestComputeEmotionStats_Empty(t *testing.T) {
	stats := ComputeEmotionStats(nil)
	assert.Equal(t, 0, stats.TotalEntries)
	assert.NotNil(t, stats.AverageEmotions)
	assert.NotNil(t, stats.EmotionTrends)
}

func TestEmotionService_StatsCachedUntilInvalidated(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := &mockEmotionStore{}
	svc := NewEmotionService(store, NewCacheService(rdb), zap.NewNop().Sugar())
	ctx := context.Background()

	store.On("AllForUser", mock.Anything, "u1").Return([]models.EmotionAnalysis{
		{Date: "d1", Emotions: map[string]float64{"joy": 50}},
	}, nil)

	first, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	second, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "AllForUser", 1)

	entry := &models.DiaryEntry{ID: 9, UserID: "u1", Date: "d2"}
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(a *models.EmotionAnalysis) bool {
		return a.DiaryID == 9 && a.UserID == "u1" && a.Emotions["calm"] == 70
	})).Return(nil)
	require.NoError(t, svc.Record(ctx, entry, map[string]float64{"calm": 70}))

	_, err = svc.Stats(ctx, "u1")
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "AllForUser", 2)

	store.On("DeleteByDiary", mock.Anything, int64(9)).Return(nil)
	require.NoError(t, svc.Forget(ctx, entry))
	_, err = svc.Stats(ctx, "u1")
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "AllForUser", 3)
}

func TestEmotionService_StatsWithoutCache(t *testing.T) {
	store := &mockEmotionStore{}
	svc := NewEmotionService(store, nil, zap.NewNop().Sugar())
	store.On("AllForUser", mock.Anything, "u1").Return([]models.EmotionAnalysis{}, nil)

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEntries)
}

func TestEmotionService_Latest(t *testing.T) {
	store := &mockEmotionStore{}
	svc := NewEmotionService(store, nil, zap.NewNop().Sugar())
	store.On("Latest", mock.Anything, "u1", int64(2)).Return([]models.EmotionAnalysis{
		{Date: "d3", Emotions: map[string]float64{"joy": 10}},
		{Date: "d2", Emotions: map[string]float64{"joy": 20}},
	}, nil)

	points, err := svc.Latest(context.Background(), "u1", 2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "d3", points[0].Date)
	assert.Equal(t, 10.0, points[0].Emotions["joy"])
}
