package models

import "time"

// EmotionAnalysis holds the emotion ratios (0-100) detected in one diary entry.
type EmotionAnalysis struct {
	DiaryID   int64              `bson:"diaryId" json:"diaryId"`
	UserID    string             `bson:"userId" json:"-"`
	Date      string             `bson:"date" json:"date"`
	Emotions  map[string]float64 `bson:"emotions" json:"emotions"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EmotionPoint is one sample of an emotion trend.
type EmotionPoint struct {
	Date     string             `json:"date"`
	Emotions map[string]float64 `json:"emotions"`
}

// EmotionStats aggregates a user's analyses.
type EmotionStats struct {
	TotalEntries    int                `json:"totalEntries"`
	AverageEmotions map[string]float64 `json:"averageEmotions"`
	EmotionTrends   []EmotionPoint     `json:"emotionTrends"`
}
