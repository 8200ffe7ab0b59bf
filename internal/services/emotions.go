package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

const emotionStatsResource = "emotion_stats"

// EmotionStore persists per-entry emotion analyses.
type EmotionStore interface {
	Upsert(ctx context.Context, a *models.EmotionAnalysis) error
	Latest(ctx context.Context, userID string, limit int64) ([]models.EmotionAnalysis, error)
	AllForUser(ctx context.Context, userID string) ([]models.EmotionAnalysis, error)
	DeleteByDiary(ctx context.Context, diaryID int64) error
}

// EmotionService records emotion analyses and aggregates them per user.
// Statistics are cached; cache is optional.
type EmotionService struct {
	store EmotionStore
	cache *CacheService
	log   *zap.SugaredLogger
}

func NewEmotionService(store EmotionStore, cache *CacheService, log *zap.SugaredLogger) *EmotionService {
	return &EmotionService{store: store, cache: cache, log: log}
}

// Record stores the analysis of entry and drops the owner's cached stats.
func (s *EmotionService) Record(ctx context.Context, entry *models.DiaryEntry, emotions map[string]float64) error {
	err := s.store.Upsert(ctx, &models.EmotionAnalysis{
		DiaryID:   entry.ID,
		UserID:    entry.UserID,
		Date:      entry.Date,
		Emotions:  emotions,
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("save emotion analysis: %w", err)
	}
	s.invalidate(ctx, entry.UserID)
	return nil
}

// Forget removes the analysis of a deleted entry.
func (s *EmotionService) Forget(ctx context.Context, entry *models.DiaryEntry) error {
	if err := s.store.DeleteByDiary(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete emotion analysis: %w", err)
	}
	s.invalidate(ctx, entry.UserID)
	return nil
}

// Latest returns the user's most recent analyses, newest first.
func (s *EmotionService) Latest(ctx context.Context, userID string, limit int) ([]models.EmotionPoint, error) {
	analyses, err := s.store.Latest(ctx, userID, int64(limit))
	if err != nil {
		return nil, err
	}
	points := make([]models.EmotionPoint, 0, len(analyses))
	for _, a := range analyses {
		points = append(points, models.EmotionPoint{Date: a.Date, Emotions: a.Emotions})
	}
	return points, nil
}

// Stats aggregates every analysis of the user.
func (s *EmotionService) Stats(ctx context.Context, userID string) (*models.EmotionStats, error) {
	key := CacheKey(emotionStatsResource, userID)
	if s.cache != nil {
		var cached models.EmotionStats
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warnw("Emotion stats cache read failed", "userId", userID, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	analyses, err := s.store.AllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := ComputeEmotionStats(analyses)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats); err != nil {
			s.log.Warnw("Emotion stats cache write failed", "userId", userID, "error", err)
		}
	}
	return stats, nil
}

func (s *EmotionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CacheKey(emotionStatsResource, userID)); err != nil {
		s.log.Warnw("Emotion stats cache invalidation failed", "userId", userID, "error", err)
	}
}

// ComputeEmotionStats averages each emotion over all analyses (an emotion
// missing from an analysis counts as 0) and lists the analyses as a trend in
// the given order.
func ComputeEmotionStats(analyses []models.EmotionAnalysis) *models.EmotionStats {
	stats := &models.EmotionStats{
		TotalEntries:    len(analyses),
		AverageEmotions: map[string]float64{},
		EmotionTrends:   make([]models.EmotionPoint, 0, len(analyses)),
	}
	if len(analyses) == 0 {
		return stats
	}

	sums := map[string]float64{}
	for _, a := range analyses {
		for emotion, v := range a.Emotions {
			sums[emotion] += v
		}
		stats.EmotionTrends = append(stats.EmotionTrends, models.EmotionPoint{Date: a.Date, Emotions: a.Emotions})
	}
	n := float64(len(analyses))
	for emotion, sum := range sums {
		stats.AverageEmotions[emotion] = sum / n
	}
	return stats
}
