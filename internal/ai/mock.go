package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Mock simulates the Gemini collaborator for tests and for keyless runs.
// When Reply or Err is set they are returned verbatim; otherwise a canned
// answer is synthesized from the prompt.
type Mock struct {
	Reply string
	Err   error
	Delay time.Duration

	mu    sync.Mutex
	calls int
}

func (m *Mock) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return m.cannedResponse(prompt), nil
}

// Calls reports how many times GenerateText was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *Mock) cannedResponse(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "release notes"):
		return "## Features\n- mock feature entry\n\n## Fixes\n- mock fix entry\n"
	case strings.Contains(lower, "commit message"):
		return "chore: mock generated commit message\n\nGenerated without a configured API key."
	case strings.Contains(lower, "reviewing pending changes"):
		return "1. Mock summary of the pending changes.\n2. Risk: low.\n3. chore(core).\n4. Nothing suspicious found."
	default:
		return fmt.Sprintf("mock response (%d characters of prompt)", len(prompt))
	}
}
