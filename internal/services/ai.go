package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

// DefaultEmoji is used whenever no emotion emoji could be produced.
const DefaultEmoji = "😐"

const maxTitleRunes = 30

// Prompt is a single chat-completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// TextGenerator turns a prompt into text. The OpenAI client implements it.
type TextGenerator interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Assistant is what diary operations ask of the language model.
type Assistant interface {
	Title(ctx context.Context, text string) (string, error)
	Emoji(ctx context.Context, text string) (string, error)
	AnalyzeEmotions(ctx context.Context, text string) (map[string]float64, error)
}

// AIService holds the prompts for every text-generation use.
type AIService struct {
	gen TextGenerator
}

func NewAIService(gen TextGenerator) *AIService {
	return &AIService{gen: gen}
}

// Title summarises a diary entry into a short witty one-line title.
func (s *AIService) Title(ctx context.Context, text string) (string, error) {
	out, err := s.gen.Complete(ctx, Prompt{
		System:    "You summarise diary entries into a single line. Reply with a short, witty title of about ten characters and nothing else.",
		User:      "Summarise this diary entry in one line: " + text,
		MaxTokens: 60,
	})
	if err != nil {
		return "", err
	}
	title := strings.Trim(strings.TrimSpace(out), `"'`)
	if title == "" {
		return "", errors.New("empty title")
	}
	return utils.Truncate(title, maxTitleRunes), nil
}

// Emoji returns a single emoji for the dominant emotion of text.
func (s *AIService) Emoji(ctx context.Context, text string) (string, error) {
	out, err := s.gen.Complete(ctx, Prompt{
		System:    "You analyse the emotion of a text and reply with one fitting emoji only.",
		User:      "Analyse the emotion of this text and reply with an emoji: " + text,
		MaxTokens: 10,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return DefaultEmoji, nil
	}
	return out, nil
}

// Feedback writes a short, warm reflection on an entry. Its signature
// matches FeedbackFunc.
func (s *AIService) Feedback(ctx context.Context, text, emotion string) (string, error) {
	out, err := s.gen.Complete(ctx, Prompt{
		System: "You are a kind journaling companion. Read the diary entry and reply with two or three " +
			"sentences of gentle, encouraging feedback that acknowledge the writer's feelings. " +
			"Do not give medical advice.",
		User:        fmt.Sprintf("Emotion: %s\nDiary entry: %s", emotion, text),
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AnalyzeEmotions asks for emotion ratios between 0 and 100, e.g.
// {"joy": 60, "calm": 30, "anticipation": 10}.
func (s *AIService) AnalyzeEmotions(ctx context.Context, text string) (map[string]float64, error) {
	out, err := s.gen.Complete(ctx, Prompt{
		System: "You are an emotion analyst. Reply with a JSON object that maps each emotion found " +
			"in the text to its share as a number between 0 and 100. Reply with JSON only.",
		User:        `Example: {"joy": 60, "calm": 30, "anticipation": 10}` + "\n\nDiary entry: " + text,
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}
	return parseEmotionRatios(out)
}

// parseEmotionRatios extracts the JSON object from a model reply, which may be
// wrapped in prose or a code fence, and clamps every ratio to [0, 100].
func parseEmotionRatios(reply string) (map[string]float64, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in reply %q", utils.Truncate(reply, 80))
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode emotion ratios: %w", err)
	}

	ratios := make(map[string]float64, len(raw))
	for k, v := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		switch {
		case v < 0:
			v = 0
		case v > 100:
			v = 100
		}
		ratios[k] = v
	}
	if len(ratios) == 0 {
		return nil, errors.New("empty emotion ratios")
	}
	return ratios, nil
}
