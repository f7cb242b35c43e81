package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/msg-ledger/internal/logging"
)

// GeminiStrategy classifies notes using the Google Gemini API. It is an
// optional fallback behind the vocabulary table and is only constructed
// when AI categorization is enabled in configuration.
type GeminiStrategy struct {
	model      *genai.GenerativeModel
	client     *genai.Client
	categories []string
	log        logging.Logger
}

// NewGeminiStrategy creates a Gemini-backed classification strategy.
// The returned strategy only ever answers with one of the given canonical
// category names; anything else from the model is treated as no match.
func NewGeminiStrategy(ctx context.Context, apiKey, modelName string, categories []string, log logging.Logger) (*GeminiStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiStrategy{
		model:      client.GenerativeModel(modelName),
		client:     client,
		categories: categories,
		log:        log,
	}, nil
}

// Name returns the name of this strategy for logging and debugging.
func (s *GeminiStrategy) Name() string {
	return "Gemini"
}

// Classify asks the model to pick one category for the note.
func (s *GeminiStrategy) Classify(ctx context.Context, note string) (string, bool, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return "", false, nil
	}

	prompt := fmt.Sprintf(
		"Classify this expense description into exactly one of the following categories: %s.\n"+
			"Respond with only the category name, or 'none' if no category fits.\n"+
			"Description: %s",
		strings.Join(s.categories, ", "), note)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", false, fmt.Errorf("gemini classification failed: %w", err)
	}

	answer := firstTextPart(resp)
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, c := range s.categories {
		if answer == strings.ToLower(c) {
			s.log.WithFields(
				logging.Field{Key: "strategy", Value: s.Name()},
				logging.Field{Key: "note", Value: note},
				logging.Field{Key: "category", Value: c},
			).Debug("Note categorized by AI fallback")
			return c, true, nil
		}
	}

	return "", false, nil
}

// Close releases the underlying API client.
func (s *GeminiStrategy) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func firstTextPart(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				return string(text)
			}
		}
	}
	return ""
}
