package models

import "time"

// Visibility values for a diary entry.
const (
	VisibilityPrivate = "private"
	VisibilityShared  = "shared"
)

// DiaryEntry is a journal entry owned by exactly one user.
// AIFeedback is write-once: after it is set no code path overwrites it.
type DiaryEntry struct {
	ID              int64              `bson:"id" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	AuthorName      string             `bson:"authorName" json:"authorName"`
	Title           string             `bson:"title" json:"title"`
	Date            string             `bson:"date" json:"date"`
	Emotion         string             `bson:"emotion" json:"emotion"`
	Entry           string             `bson:"entry" json:"entry"`
	Visibility      string             `bson:"visibility" json:"visibility"`
	ShareToken      string             `bson:"shareToken,omitempty" json:"shareToken,omitempty"`
	EmotionAnalysis map[string]float64 `bson:"emotionAnalysis,omitempty" json:"emotionAnalysis,omitempty"`
	AIFeedback      string             `bson:"aiFeedback,omitempty" json:"aiFeedback,omitempty"`
	AIFeedbackAt    *time.Time         `bson:"aiFeedbackAt,omitempty" json:"aiFeedbackAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsShared reports whether the entry currently grants share-token access.
func (e *DiaryEntry) IsShared() bool {
	return e.Visibility == VisibilityShared && e.ShareToken != ""
}

// HasFeedback reports whether the write-once feedback has been stored.
func (e *DiaryEntry) HasFeedback() bool {
	return e.AIFeedback != ""
}

// ValidVisibility reports whether v is an accepted visibility value.
func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityShared
}
