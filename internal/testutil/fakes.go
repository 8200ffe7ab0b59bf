package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
)

// ErrUnavailable is returned by fakes configured to fail.
var ErrUnavailable = errors.New("upstream unavailable")

// Assistant answers every language-model request with fixed values.
type Assistant struct {
	TitleText string
	EmojiText string
	Emotions  map[string]float64
	Fail      bool
}

func (a *Assistant) Title(context.Context, string) (string, error) {
	if a.Fail {
		return "", ErrUnavailable
	}
	return a.TitleText, nil
}

func (a *Assistant) Emoji(context.Context, string) (string, error) {
	if a.Fail {
		return "", ErrUnavailable
	}
	return a.EmojiText, nil
}

func (a *Assistant) AnalyzeEmotions(context.Context, string) (map[string]float64, error) {
	if a.Fail || a.Emotions == nil {
		return nil, ErrUnavailable
	}
	return a.Emotions, nil
}

// FeedbackGenerator counts its calls and returns Text, suffixed with the
// call number when Numbered is set.
type FeedbackGenerator struct {
	Text     string
	Err      error
	Numbered bool
	calls    atomic.Int32
}

func (g *FeedbackGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	n := g.calls.Add(1)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Numbered {
		return fmt.Sprintf("%s #%d", g.Text, n), nil
	}
	return g.Text, nil
}

// Calls is the number of Generate invocations so far.
func (g *FeedbackGenerator) Calls() int {
	return int(g.calls.Load())
}

// Verifier maps provider tokens to profiles; unknown tokens fail.
type Verifier map[string]models.OAuthProfile

func (v Verifier) Verify(_ context.Context, token string) (*models.OAuthProfile, error) {
	p, ok := v[token]
	if !ok {
		return nil, errors.New("token rejected by provider")
	}
	return &p, nil
}
