// Package ai provides the text-generation collaborator used by the
// background operations: a Gemini-backed client with model fallback and a
// scriptable mock for tests and keyless runs.
package ai

import "context"

// Client generates text for a prompt. Implementations own their retry and
// fallback policy; callers treat any returned error as final for the
// current invocation.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
