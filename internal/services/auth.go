package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
)

// UserStore persists users. Mongo and Postgres implementations exist.
type UserStore interface {
	UpsertLogin(ctx context.Context, p models.OAuthProfile, now time.Time) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LoginResult is a successful login.
type LoginResult struct {
	User  *models.User
	Token string
}

// AuthService signs users in through an OAuth provider.
type AuthService struct {
	users     UserStore
	sessions  *SessionService
	verifiers map[string]ProfileVerifier
	now       func() time.Time
}

func NewAuthService(users UserStore, sessions *SessionService, verifiers map[string]ProfileVerifier) *AuthService {
	return &AuthService{users: users, sessions: sessions, verifiers: verifiers, now: time.Now}
}

// Login verifies accessToken with provider, creates the user on first
// login and opens a session.
func (s *AuthService) Login(ctx context.Context, provider, accessToken string) (*LoginResult, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}

	profile, err := verifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("verify %s token: %w", provider, err)
	}
	if profile.ProviderID == "" {
		return nil, fmt.Errorf("verify %s token: profile has no id", provider)
	}
	profile.Provider = provider
	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = defaultDisplayName(profile.Email)
	}

	user, err := s.users.UpsertLogin(ctx, *profile, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Profile returns the stored user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Logout revokes the session behind token, or every session of its user
// when all is set.
func (s *AuthService) Logout(ctx context.Context, token string, all bool) error {
	if token == "" {
		return nil
	}
	if all {
		id, err := s.sessions.Validate(ctx, token)
		if err == nil {
			return s.sessions.RevokeAll(ctx, id.UserID)
		}
	}
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a session token to the caller's identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	return s.sessions.Validate(ctx, token)
}

// SessionTTL is the lifetime of tokens issued by Login.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func defaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
