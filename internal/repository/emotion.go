package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

type EmotionRepository struct {
	col *mongo.Collection
}

func NewEmotionRepository(db *mongo.Database) *EmotionRepository {
	return &EmotionRepository{col: db.Collection(emotionCollection)}
}

// Upsert stores the analysis of one diary entry, replacing an earlier one.
func (r *EmotionRepository) Upsert(ctx context.Context, a *models.EmotionAnalysis) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"diaryId": a.DiaryID}, a, opts)
	return err
}

// Latest returns the user's most recent analyses.
func (r *EmotionRepository) Latest(ctx context.Context, userID string, limit int64) ([]models.EmotionAnalysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// AllForUser returns every analysis of the user, oldest first.
func (r *EmotionRepository) AllForUser(ctx context.Context, userID string) ([]models.EmotionAnalysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *EmotionRepository) DeleteByDiary(ctx context.Context, diaryID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"diaryId": diaryID})
	return err
}

func (r *EmotionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.EmotionAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]models.EmotionAnalysis, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
