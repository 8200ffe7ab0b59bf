package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

// DiaryChanges lists the editable fields of an entry; nil means unchanged.
// The feedback fields are deliberately absent so an edit can never clear them.
type DiaryChanges struct {
	Title      *string
	Entry      *string
	Emotion    *string
	Visibility *string
	ShareToken *string
}

type DiaryRepository struct {
	col *mongo.Collection
	seq *Sequence
}

func NewDiaryRepository(db *mongo.Database, seq *Sequence) *DiaryRepository {
	return &DiaryRepository{col: db.Collection(diaryCollection), seq: seq}
}

// Create assigns the next numeric id to e and inserts it.
func (r *DiaryRepository) Create(ctx context.Context, e *models.DiaryEntry) error {
	id, err := r.seq.Next(ctx, diaryCollection)
	if err != nil {
		return err
	}
	e.ID = id

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err = r.col.InsertOne(ctx, e)
	return err
}

func (r *DiaryRepository) FindByID(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e models.DiaryEntry
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// FindShared returns the currently shared entry carrying token.
func (r *DiaryRepository) FindShared(ctx context.Context, token string) (*models.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e models.DiaryEntry
	filter := bson.M{"shareToken": token, "visibility": models.VisibilityShared}
	if err := r.col.FindOne(ctx, filter).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ListByUser returns one page of the user's entries, newest first, and the
// total number matching the filter. An empty visibility matches all.
func (r *DiaryRepository) ListByUser(ctx context.Context, userID, visibility string, skip, limit int64) ([]models.DiaryEntry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"userId": userID}
	if visibility != "" {
		filter["visibility"] = visibility
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.DiaryEntry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Update applies changes and returns the updated entry.
func (r *DiaryRepository) Update(ctx context.Context, id int64, changes DiaryChanges, now time.Time) (*models.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updatedAt": now}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Entry != nil {
		set["entry"] = *changes.Entry
	}
	if changes.Emotion != nil {
		set["emotion"] = *changes.Emotion
	}
	if changes.Visibility != nil {
		set["visibility"] = *changes.Visibility
	}
	if changes.ShareToken != nil {
		set["shareToken"] = *changes.ShareToken
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e models.DiaryEntry
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// SetEmotionAnalysis stores the detected emotion ratios on the entry.
func (r *DiaryRepository) SetEmotionAnalysis(ctx context.Context, id int64, emotions map[string]float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"emotionAnalysis": emotions}})
	return err
}

// SetFeedbackIfUnset writes feedback only when the entry has none yet.
// It reports false when another writer got there first (or the entry is gone).
func (r *DiaryRepository) SetFeedbackIfUnset(ctx context.Context, id int64, feedback string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// {$in: [null, ""]} also matches a missing field.
	filter := bson.M{
		"id":         id,
		"aiFeedback": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"aiFeedback": feedback, "aiFeedbackAt": at}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *DiaryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
