package llm

import (
	"context"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API with a plain-text prompt and returns the
// model's text.
type Gemini struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &TransportError{Err: err}
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	return result.Text(), nil
}
