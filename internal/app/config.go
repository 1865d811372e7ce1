package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GeminiToken         string `yaml:"gemini_token"`
	GeminiModel         string `yaml:"gemini_model"`
	GeminiFallbackModel string `yaml:"gemini_fallback_model"`

	JiraURL      string `yaml:"jira_url"`
	JiraUsername string `yaml:"jira_username"`
	JiraAPIToken string `yaml:"jira_api_token"`

	MondayAPIKey      string `yaml:"monday_api_key"`
	MondayBoardID     string `yaml:"monday_board_id"`
	MondayURLTemplate string `yaml:"monday_url_template"`

	NotesDir      string `yaml:"notes_dir"`
	ChangelogPath string `yaml:"changelog_path"`
}

func DefaultConfig() Config {
	return Config{
		GeminiModel:         "gemini-2.5-pro",
		GeminiFallbackModel: "gemini-2.0-flash",
		NotesDir:            ".",
		ChangelogPath:       "CHANGELOG.md",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-pro"
	}
	if cfg.GeminiFallbackModel == "" {
		cfg.GeminiFallbackModel = "gemini-2.0-flash"
	}
	if cfg.NotesDir == "" {
		cfg.NotesDir = "."
	}
	if cfg.ChangelogPath == "" {
		cfg.ChangelogPath = "CHANGELOG.md"
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "shipmate", "config.yml")
}

// ApplyEnv fills credentials from the environment when the config file left
// them empty.
func (c *Config) ApplyEnv() {
	if c.GeminiToken == "" {
		c.GeminiToken = os.Getenv("GEMINI_API_KEY")
	}
	if c.JiraAPIToken == "" {
		c.JiraAPIToken = os.Getenv("JIRA_API_TOKEN")
	}
	if c.MondayAPIKey == "" {
		c.MondayAPIKey = os.Getenv("MONDAY_API_KEY")
	}
}
