// Package repository persists diary entries, comments, emotion analyses and
// users. MongoDB is the primary store; users may live in Postgres instead.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

const (
	diaryCollection   = "diary_entries"
	commentCollection = "comments"
	emotionCollection = "emotion_analyses"
	userCollection    = "users"
	counterCollection = "counters"
	queryTimeout      = 5 * time.Second
)

// EnsureIndexes creates the indexes every collection relies on.
// Called on startup after Mongo has connected.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		diaryCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("uniq_id").SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_user_created")},
			{Keys: bson.D{{Key: "shareToken", Value: 1}}, Options: options.Index().SetName("idx_share_token").SetSparse(true)},
		},
		commentCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("uniq_id").SetUnique(true)},
			{Keys: bson.D{{Key: "entryId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_entry_created")},
		},
		emotionCollection: {
			{Keys: bson.D{{Key: "diaryId", Value: 1}}, Options: options.Index().SetName("uniq_diary").SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_user_created")},
		},
		userCollection: {
			{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "providerId", Value: 1}}, Options: options.Index().SetName("uniq_provider").SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// Sequence hands out increasing numeric ids from the counters collection.
type Sequence struct {
	col *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{col: db.Collection(counterCollection)}
}

// Next atomically increments and returns the counter called name.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
