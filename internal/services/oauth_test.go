package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

func TestNaverVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer good-token" {
			_ = json.NewEncoder(w).Encode(map[string]any{"resultcode": "024", "message": "Authentication failed"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resultcode": "00",
			"message":    "success",
			"response": map[string]any{
				"id":            "naver-42",
				"email":         "mina@naver.com",
				"nickname":      "mina",
				"profile_image": "https://img.example/m.png",
			},
		})
	}))
	t.Cleanup(srv.Close)

	v := NewNaverVerifier(srv.URL, srv.Client())

	p, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderNaver, p.Provider)
	assert.Equal(t, "naver-42", p.ProviderID)
	assert.Equal(t, "mina", p.Name, "falls back to nickname")
	assert.Equal(t, "https://img.example/m.png", p.Avatar)

	_, err = v.Verify(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestNaverVerifier_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := NewNaverVerifier(srv.URL, srv.Client()).Verify(context.Background(), "x")
	assert.Error(t, err)
}

func TestGoogleVerifier_AccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/people/me", r.URL.Path)
		assert.Equal(t, "Bearer ya29.token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resourceName": "people/1098",
			"names":        []any{map[string]any{"displayName": "Mina Kim"}},
			"emailAddresses": []any{
				map[string]any{"value": "other@example.com"},
				map[string]any{"value": "mina@gmail.com", "metadata": map[string]any{"primary": true, "verified": true}},
			},
			"photos": []any{map[string]any{"url": "https://photo.example/p.jpg"}},
		})
	}))
	t.Cleanup(srv.Close)

	// A supplied HTTP client replaces the token-source transport, so it sets the header itself.
	v := NewGoogleVerifier("client-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(&http.Client{Transport: bearerTransport{token: "ya29.token"}}),
	)

	p, err := v.Verify(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, p.Provider)
	assert.Equal(t, "1098", p.ProviderID)
	assert.Equal(t, "Mina Kim", p.Name)
	assert.Equal(t, "mina@gmail.com", p.Email)
	assert.True(t, p.Verified)
	assert.Equal(t, "https://photo.example/p.jpg", p.Avatar)
}

func TestGoogleVerifier_IDTokenNeedsClientID(t *testing.T) {
	_, err := NewGoogleVerifier("").Verify(context.Background(), "a.b.c")
	assert.Error(t, err)
}

type bearerTransport struct{ token string }

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(r)
}
