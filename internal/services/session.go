package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

const (
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionsKeyPrefix is the Redis key prefix for the set of a user's sessions
	UserSessionsKeyPrefix = "user_sessions:"
)

// Identity is the verified caller behind a request.
type Identity struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	Provider  string
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Provider  string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// SessionService issues and validates login sessions. A session lives in
// Redis and is referenced by a signed JWT; a token is only accepted while
// its Redis record still exists, so logout revokes it immediately.
type SessionService struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(rdb *redis.Client, secret string, ttl time.Duration) *SessionService {
	return &SessionService{rdb: rdb, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long a new session stays valid.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session for user and returns its signed token.
func (s *SessionService) Create(ctx context.Context, user *models.User) (string, error) {
	sid := uuid.NewString()
	now := s.now()

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+sid, user.ID, s.ttl)
	pipe.SAdd(ctx, UserSessionsKeyPrefix+user.ID, sid)
	pipe.Expire(ctx, UserSessionsKeyPrefix+user.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	claims := sessionClaims{
		SessionID: sid,
		Email:     user.Email,
		Name:      user.Name,
		Provider:  user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Validate checks the token signature and expiry and that its session is
// still live in Redis.
func (s *SessionService) Validate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := s.rdb.Get(ctx, SessionKeyPrefix+claims.SessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if userID != claims.Subject {
		return nil, ErrInvalidSession
	}

	return &Identity{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  claims.Provider,
	}, nil
}

// Revoke deletes the session a token refers to. Unparseable tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, SessionKeyPrefix+claims.SessionID)
	pipe.SRem(ctx, UserSessionsKeyPrefix+claims.Subject, claims.SessionID)
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeAll invalidates every session of a user.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	setKey := UserSessionsKeyPrefix + userID
	sids, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, SessionKeyPrefix+sid)
	}
	keys = append(keys, setKey)
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *SessionService) parse(token string) (*sessionClaims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
