package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pulsedash/pulsedash/services"
)

// ErrEmptyResponse is returned when the model call succeeds but produces no
// text candidates.
var ErrEmptyResponse = errors.New("generation returned no content")

// Gemini implements services.ContentGenerator on the Gemini API. The call
// is a single attempt; retry and failure policy belong to the caller.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a gateway backed by the named Gemini model.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

// Generate implements services.ContentGenerator.
func (g *Gemini) Generate(ctx context.Context, systemInstruction, userPrompt string, maxTokens int, temperature float32) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break // only the first candidate
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

var _ services.ContentGenerator = (*Gemini)(nil)
