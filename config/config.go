package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "COACH_"

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMistral    = "mistral"
)

const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	LLM       LLMConfig       `koanf:"llm"`
	Interview InterviewConfig `koanf:"interview"`
	Storage   StorageConfig   `koanf:"storage"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
}

type LLMConfig struct {
	Provider string `koanf:"provider"`

	OpenAIAPIKey     string `koanf:"openai_api_key"`
	OpenAIModel      string `koanf:"openai_model"`
	OpenAICheapModel string `koanf:"openai_cheap_model"`

	AnthropicAPIKey     string `koanf:"anthropic_api_key"`
	AnthropicModel      string `koanf:"anthropic_model"`
	AnthropicCheapModel string `koanf:"anthropic_cheap_model"`

	OpenRouterAPIKey     string `koanf:"openrouter_api_key"`
	OpenRouterModel      string `koanf:"openrouter_model"`
	OpenRouterCheapModel string `koanf:"openrouter_cheap_model"`
	OpenRouterBaseURL    string `koanf:"openrouter_base_url"`

	MistralAPIKey     string `koanf:"mistral_api_key"`
	MistralModel      string `koanf:"mistral_model"`
	MistralCheapModel string `koanf:"mistral_cheap_model"`
	MistralBaseURL    string `koanf:"mistral_base_url"`

	RequestsPerMinute float64       `koanf:"requests_per_minute"`
	Burst             int           `koanf:"burst"`
	Timeout           time.Duration `koanf:"timeout"`
}

type InterviewConfig struct {
	MaxTurns          int     `koanf:"max_turns"`
	MinTopics         int     `koanf:"min_topics"`
	MinTurnsForTopics int     `koanf:"min_turns_for_topics"`
	DifficultyMin     int     `koanf:"difficulty_min"`
	DifficultyMax     int     `koanf:"difficulty_max"`
	DifficultyInitial int     `koanf:"difficulty_initial"`
	ThresholdHigh     float64 `koanf:"threshold_high"`
	ThresholdLow      float64 `koanf:"threshold_low"`
	OffTopicLimit     int     `koanf:"off_topic_limit"`
	MemoryWindow      int     `koanf:"memory_window"`
	ContextWindow     int     `koanf:"context_window"`
	SkipScore         float64 `koanf:"skip_score"`
}

type StorageConfig struct {
	Driver      string `koanf:"driver"`
	Dir         string `koanf:"dir"`
	SQLitePath  string `koanf:"sqlite_path"`
	PostgresURL string `koanf:"postgres_url"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:             ProviderOpenRouter,
			OpenAIModel:          "gpt-4o",
			OpenAICheapModel:     "gpt-4o-mini",
			AnthropicModel:       "claude-sonnet-4-20250514",
			AnthropicCheapModel:  "claude-3-5-haiku-latest",
			OpenRouterModel:      "openai/gpt-4o",
			OpenRouterCheapModel: "openai/gpt-4o-mini",
			OpenRouterBaseURL:    "https://openrouter.ai/api/v1",
			MistralModel:         "mistral-large-latest",
			MistralCheapModel:    "mistral-small-latest",
			MistralBaseURL:       "https://api.mistral.ai/v1",
			RequestsPerMinute:    60,
			Burst:                5,
			Timeout:              60 * time.Second,
		},
		Interview: InterviewConfig{
			MaxTurns:          20,
			MinTopics:         5,
			MinTurnsForTopics: 10,
			DifficultyMin:     1,
			DifficultyMax:     5,
			DifficultyInitial: 3,
			ThresholdHigh:     0.8,
			ThresholdLow:      0.4,
			OffTopicLimit:     3,
			MemoryWindow:      5,
			ContextWindow:     3,
			SkipScore:         0.3,
		},
		Storage: StorageConfig{
			Driver:     StorageFile,
			Dir:        "logs",
			SQLitePath: "./data/interviews.db",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// COACH_* environment variables, in increasing order of precedence.
//
//	COACH_LLM_PROVIDER        -> llm.provider
//	COACH_INTERVIEW_MAX_TURNS -> interview.max_turns
//	COACH_STORAGE_DRIVER      -> storage.driver
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyProviderKeys()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envKey maps COACH_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// applyProviderKeys falls back to the conventional unprefixed API key variables.
func (c *Config) applyProviderKeys() {
	fallback := func(target *string, name string) {
		if *target == "" {
			*target = os.Getenv(name)
		}
	}
	fallback(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	fallback(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	fallback(&c.LLM.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	fallback(&c.LLM.MistralAPIKey, "MISTRAL_API_KEY")
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderMistral:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests_per_minute must be >= 0")
	}

	iv := c.Interview
	if iv.MaxTurns < 1 {
		return fmt.Errorf("interview max_turns must be >= 1")
	}
	if iv.DifficultyMin > iv.DifficultyMax {
		return fmt.Errorf("interview difficulty_min %d exceeds difficulty_max %d", iv.DifficultyMin, iv.DifficultyMax)
	}
	if iv.DifficultyInitial < iv.DifficultyMin || iv.DifficultyInitial > iv.DifficultyMax {
		return fmt.Errorf("interview difficulty_initial %d outside [%d, %d]", iv.DifficultyInitial, iv.DifficultyMin, iv.DifficultyMax)
	}
	if iv.ThresholdLow < 0 || iv.ThresholdHigh > 1 || iv.ThresholdLow > iv.ThresholdHigh {
		return fmt.Errorf("interview thresholds must satisfy 0 <= low <= high <= 1")
	}
	if iv.OffTopicLimit < 1 {
		return fmt.Errorf("interview off_topic_limit must be >= 1")
	}

	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir cannot be empty")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage sqlite_path cannot be empty")
		}
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage postgres_url cannot be empty")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}
