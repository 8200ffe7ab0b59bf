package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

// MongoUserRepository stores users in the users collection.
type MongoUserRepository struct {
	col    *mongo.Collection
	cipher *utils.Cipher
}

func NewMongoUserRepository(db *mongo.Database, cipher *utils.Cipher) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(userCollection), cipher: cipher}
}

// UpsertLogin creates the user on first login. Later logins only move
// lastLoginAt; the stored profile is left as it was.
func (r *MongoUserRepository) UpsertLogin(ctx context.Context, p models.OAuthProfile, now time.Time) (*models.User, error) {
	email, err := r.cipher.Encrypt(p.Email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"provider": p.Provider, "providerId": p.ProviderID}
	update := bson.M{
		"$set": bson.M{"lastLoginAt": now},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"name":      p.Name,
			"email":     email,
			"avatar":    p.Avatar,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, err
	}
	return r.decrypt(&u)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return r.decrypt(&u)
}

func (r *MongoUserRepository) decrypt(u *models.User) (*models.User, error) {
	email, err := r.cipher.Decrypt(u.Email)
	if err != nil {
		return nil, err
	}
	u.Email = email
	return u, nil
}
