package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

// PostgresUserRepository is the USER_STORE=postgres alternative to
// MongoUserRepository.
type PostgresUserRepository struct {
	db     *sql.DB
	cipher *utils.Cipher
}

func NewPostgresUserRepository(db *sql.DB, cipher *utils.Cipher) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, cipher: cipher}
}

func (r *PostgresUserRepository) UpsertLogin(ctx context.Context, p models.OAuthProfile, now time.Time) (*models.User, error) {
	email, err := r.cipher.Encrypt(p.Email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	var avatar sql.NullString
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, provider, provider_id, name, email, avatar, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (provider, provider_id) DO UPDATE SET last_login_at = EXCLUDED.last_login_at
		RETURNING id, provider, provider_id, name, email, avatar, created_at, last_login_at
	`, uuid.NewString(), p.Provider, p.ProviderID, p.Name, email, p.Avatar, now).Scan(
		&u.ID, &u.Provider, &u.ProviderID, &u.Name, &u.Email, &avatar, &u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	u.Avatar = avatar.String
	return r.decrypt(&u)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, provider, provider_id, name, email, avatar, created_at, last_login_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Provider, &u.ProviderID, &u.Name, &u.Email, &avatar, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Avatar = avatar.String
	return r.decrypt(&u)
}

func (r *PostgresUserRepository) decrypt(u *models.User) (*models.User, error) {
	email, err := r.cipher.Decrypt(u.Email)
	if err != nil {
		return nil, err
	}
	u.Email = email
	return u, nil
}
