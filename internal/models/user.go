package models

import "time"

// OAuth providers a user can sign in with.
const (
	ProviderGoogle = "google"
	ProviderNaver  = "naver"
)

type User struct {
	ID          string    `bson:"_id" json:"id"`
	Provider    string    `bson:"provider" json:"provider"`
	ProviderID  string    `bson:"providerId" json:"-"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Avatar      string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time `bson:"lastLoginAt" json:"lastLoginAt"`
}

// OAuthProfile is what a provider tells us about the person behind a token.
type OAuthProfile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Avatar     string
	Verified   bool
}
