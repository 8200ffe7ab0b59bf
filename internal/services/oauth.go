package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

// ProfileVerifier turns a provider token into the profile it belongs to.
type ProfileVerifier interface {
	Verify(ctx context.Context, token string) (*models.OAuthProfile, error)
}

// GoogleVerifier accepts either a Google ID token (a JWT, validated against
// the client id) or an OAuth access token (resolved through the People API).
type GoogleVerifier struct {
	clientID   string
	peopleOpts []option.ClientOption
}

// NewGoogleVerifier returns a verifier for clientID. opts are passed to the
// People API client.
func NewGoogleVerifier(clientID string, opts ...option.ClientOption) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, peopleOpts: opts}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*models.OAuthProfile, error) {
	if strings.Count(token, ".") == 2 {
		return v.verifyIDToken(ctx, token)
	}
	return v.verifyAccessToken(ctx, token)
}

func (v *GoogleVerifier) verifyIDToken(ctx context.Context, token string) (*models.OAuthProfile, error) {
	if v.clientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is not configured")
	}
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}

	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	verified, _ := payload.Claims["email_verified"].(bool)

	return &models.OAuthProfile{
		Provider:   models.ProviderGoogle,
		ProviderID: payload.Subject,
		Email:      claim("email"),
		Name:       claim("name"),
		Avatar:     claim("picture"),
		Verified:   verified,
	}, nil
}

func (v *GoogleVerifier) verifyAccessToken(ctx context.Context, token string) (*models.OAuthProfile, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})),
	}, v.peopleOpts...)

	svc, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("people client: %w", err)
	}
	person, err := svc.People.Get("people/me").PersonFields("names,emailAddresses,photos").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}

	p := &models.OAuthProfile{
		Provider:   models.ProviderGoogle,
		ProviderID: strings.TrimPrefix(person.ResourceName, "people/"),
	}
	if p.ProviderID == "" {
		return nil, errors.New("google profile has no id")
	}
	if len(person.Names) > 0 {
		p.Name = person.Names[0].DisplayName
	}
	for _, e := range person.EmailAddresses {
		if p.Email == "" || (e.Metadata != nil && e.Metadata.Primary) {
			p.Email = e.Value
			p.Verified = e.Metadata != nil && e.Metadata.Verified
		}
	}
	if len(person.Photos) > 0 {
		p.Avatar = person.Photos[0].Url
	}
	return p, nil
}

// NaverVerifier resolves a Naver access token through the profile endpoint.
type NaverVerifier struct {
	profileURL string
	client     *http.Client
}

// NewNaverVerifier uses base as the underlying HTTP client; nil means
// http.DefaultClient.
func NewNaverVerifier(profileURL string, base *http.Client) *NaverVerifier {
	return &NaverVerifier{profileURL: profileURL, client: base}
}

type naverProfileResponse struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func (v *NaverVerifier) Verify(ctx context.Context, token string) (*models.OAuthProfile, error) {
	if v.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, v.client)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.profileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch naver profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch naver profile: status %d", resp.StatusCode)
	}

	var body naverProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode naver profile: %w", err)
	}
	if body.ResultCode != "00" || body.Response.ID == "" {
		return nil, fmt.Errorf("naver profile rejected: %s %s", body.ResultCode, body.Message)
	}

	name := body.Response.Name
	if name == "" {
		name = body.Response.Nickname
	}
	return &models.OAuthProfile{
		Provider:   models.ProviderNaver,
		ProviderID: body.Response.ID,
		Email:      body.Response.Email,
		Name:       name,
		Avatar:     body.Response.ProfileImage,
		Verified:   body.Response.Email != "",
	}, nil
}
