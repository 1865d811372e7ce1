package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const (
	DefaultModel         = "gemini-2.5-pro"
	DefaultFallbackModel = "gemini-2.0-flash"
)

// Gemini is the production Client backed by the Gemini API. A failed call
// against the primary model is retried once against the fallback model
// before the error is surfaced.
type Gemini struct {
	client   *genai.Client
	model    string
	fallback string
	log      zerolog.Logger
}

func NewGemini(ctx context.Context, apiKey, model, fallback string, log zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if fallback == "" {
		fallback = DefaultFallbackModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client:   client,
		model:    model,
		fallback: fallback,
		log:      log,
	}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := g.generate(ctx, g.model, prompt)
	if err == nil || g.fallback == "" || g.fallback == g.model {
		return out, err
	}
	if ctx.Err() != nil {
		return "", err
	}
	g.log.Warn().
		Str("model", g.model).
		Str("fallback", g.fallback).
		Err(err).
		Msg("primary model failed, trying fallback")
	return g.generate(ctx, g.fallback, prompt)
}

func (g *Gemini) generate(ctx context.Context, model, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no content")
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", errors.New("gemini blocked the response on safety grounds")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", errors.New("gemini returned empty text")
	}
	return out, nil
}
