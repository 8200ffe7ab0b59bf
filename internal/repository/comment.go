package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

type CommentRepository struct {
	col *mongo.Collection
	seq *Sequence
}

func NewCommentRepository(db *mongo.Database, seq *Sequence) *CommentRepository {
	return &CommentRepository{col: db.Collection(commentCollection), seq: seq}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	id, err := r.seq.Next(ctx, commentCollection)
	if err != nil {
		return err
	}
	c.ID = id

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err = r.col.InsertOne(ctx, c)
	return err
}

// ListForEntry returns the comments written under shareToken, newest first.
func (r *CommentRepository) ListForEntry(ctx context.Context, entryID int64, shareToken string) ([]models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"entryId": entryID, "shareToken": shareToken}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
