// Package ai implements the generative-model flows: validated JSON in,
// validated JSON out, with a deterministic local fallback whenever the model
// call fails, returns nothing usable, or produces output that fails schema
// validation. The rest of the application only ever sees validated structs.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("ai: empty model response")

// Generator produces structured JSON from a prompt. Implementations must
// decode the model output into out or fail; callers fall back to local
// computation on any error.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// Gemini is a Generator backed by the Gemini API in JSON response mode.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai: api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateJSON sends the prompt with responseMimeType application/json and
// decodes the structured reply into out.
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string, out any) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return fmt.Errorf("ai: generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("ai: decode model output: %w", err)
	}
	return nil
}
