package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/resale-labs/lister/internal/gemini"
	"github.com/resale-labs/lister/internal/models"
	"github.com/resale-labs/lister/internal/prompt"
)

// DefaultPath is where settings live unless overridden.
const DefaultPath = "data/settings.yaml"

// Settings is the persisted configuration surface. An empty GeminiAPIKey
// disables inference; everything else has a usable default.
type Settings struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	TitleFormula string               `yaml:"title_formula"`
	PricingRules []models.PricingRule `yaml:"pricing_rules"`

	DBPath              string `yaml:"db_path"`
	InferTimeoutSeconds int    `yaml:"infer_timeout_seconds"`
}

// Load reads settings from path, applies env overrides, and fills defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Settings, error) {
	var s Settings

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		slog.Debug("Loaded settings", "path", path)
	} else if !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	envOverride(&s.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&s.GeminiModel, "GEMINI_MODEL")
	envOverride(&s.TitleFormula, "LISTER_TITLE_FORMULA")
	envOverride(&s.DBPath, "LISTER_DB_PATH")
	envOverrideInt(&s.InferTimeoutSeconds, "LISTER_INFER_TIMEOUT_SECONDS")

	s.applyDefaults()
	return s, nil
}

// Save writes settings to path, creating the parent directory if needed.
func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if s.GeminiModel == "" {
		s.GeminiModel = gemini.DefaultModel
	}
	if s.TitleFormula == "" {
		s.TitleFormula = prompt.DefaultTitleFormula
	}
	if s.DBPath == "" {
		s.DBPath = "data/lister.db"
	}
	if s.InferTimeoutSeconds <= 0 {
		s.InferTimeoutSeconds = 120
	}
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
