package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("model = %q, want default", cfg.GeminiModel)
	}
	if cfg.ChangelogPath != "CHANGELOG.md" {
		t.Errorf("changelog path = %q, want default", cfg.ChangelogPath)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	in := DefaultConfig()
	in.GeminiToken = "tok"
	in.JiraURL = "https://example.atlassian.net"
	in.JiraUsername = "dev@example.com"
	in.MondayBoardID = "123"

	if err := SaveConfig(in, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("gemini_token: abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GeminiToken != "abc" {
		t.Errorf("token = %q", cfg.GeminiToken)
	}
	if cfg.GeminiFallbackModel != "gemini-2.0-flash" {
		t.Errorf("fallback = %q, want default", cfg.GeminiFallbackModel)
	}
	if cfg.NotesDir != "." {
		t.Errorf("notes dir = %q, want default", cfg.NotesDir)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("JIRA_API_TOKEN", "env-jira")
	t.Setenv("MONDAY_API_KEY", "env-monday")

	cfg := DefaultConfig()
	cfg.JiraAPIToken = "from-file"
	cfg.ApplyEnv()

	if cfg.GeminiToken != "env-gemini" {
		t.Errorf("gemini token = %q", cfg.GeminiToken)
	}
	if cfg.JiraAPIToken != "from-file" {
		t.Errorf("file value should win, got %q", cfg.JiraAPIToken)
	}
	if cfg.MondayAPIKey != "env-monday" {
		t.Errorf("monday key = %q", cfg.MondayAPIKey)
	}
}
