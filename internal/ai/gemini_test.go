package ai

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewGeminiValidation(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "", "", zerolog.Nop()); err == nil {
		t.Fatal("missing api key should fail")
	}
}

func TestNewGeminiDefaults(t *testing.T) {
	g, err := NewGemini(context.Background(), "key", "", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if g.model != DefaultModel {
		t.Errorf("model = %q, want %q", g.model, DefaultModel)
	}
	if g.fallback != DefaultFallbackModel {
		t.Errorf("fallback = %q, want %q", g.fallback, DefaultFallbackModel)
	}
}

func TestGeminiRejectsEmptyPrompt(t *testing.T) {
	g, err := NewGemini(context.Background(), "key", "primary", "fallback", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	// Fails before any network call, on both the primary and fallback path.
	if _, err := g.GenerateText(context.Background(), "   "); err == nil {
		t.Fatal("empty prompt should fail")
	}
}
