package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/categorize"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/storage"
	"github.com/spf13/viper"
)

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("storage.backend", storage.BackendCSV)

	v.SetDefault("categorizer.policy", "substring")
	v.SetDefault("categorizer.cache_ttl", 24*time.Hour)

	v.SetDefault("currency", "RM")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadLLMConfig builds the completion client configuration. API keys fall
// back to OPENAI_API_KEY and ANTHROPIC_API_KEY.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	cfg := llm.Config{
		Provider:    strings.ToLower(v.GetString("llm.provider")),
		Model:       v.GetString("llm.model"),
		ImageModel:  v.GetString("llm.image_model"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		RetryDelay:  v.GetDuration("llm.retry_delay"),
		RateLimit:   v.GetInt("llm.rate_limit"),
		Timeout:     v.GetDuration("llm.timeout"),
	}

	switch cfg.Provider {
	case "", "openai":
		cfg.Provider = "openai"
		cfg.APIKey = firstNonEmpty(v.GetString("llm.openai_api_key"), os.Getenv("OPENAI_API_KEY"))
		if cfg.APIKey == "" {
			return cfg, fmt.Errorf("%w: OpenAI API key not found in config or OPENAI_API_KEY environment variable", common.ErrMissingConfig)
		}
	case "anthropic":
		cfg.APIKey = firstNonEmpty(v.GetString("llm.anthropic_api_key"), os.Getenv("ANTHROPIC_API_KEY"))
		if cfg.APIKey == "" {
			return cfg, fmt.Errorf("%w: Anthropic API key not found in config or ANTHROPIC_API_KEY environment variable", common.ErrMissingConfig)
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}

	return cfg, nil
}

// LoadStorageConfig resolves the backend and its file location. Without an
// explicit path the file lives in DataDir, named for the backend.
func LoadStorageConfig(v *viper.Viper) (storage.Config, error) {
	cfg := storage.Config{
		Backend: strings.ToLower(v.GetString("storage.backend")),
		Path:    ExpandPath(v.GetString("storage.path")),
	}

	switch cfg.Backend {
	case "", storage.BackendCSV:
		cfg.Backend = storage.BackendCSV
		if cfg.Path == "" {
			cfg.Path = filepath.Join(DataDir(), "expenses_data.csv")
		}
	case storage.BackendSQLite:
		if cfg.Path == "" {
			cfg.Path = filepath.Join(DataDir(), "expenses.db")
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported storage backend: %s", common.ErrInvalidConfig, cfg.Backend)
	}

	return cfg, nil
}

// LoadCategorizerConfig resolves the reply matching policy and cache TTL.
func LoadCategorizerConfig(v *viper.Viper) categorize.Config {
	return categorize.Config{
		Policy:   categorize.PolicyByName(v.GetString("categorizer.policy")),
		CacheTTL: v.GetDuration("categorizer.cache_ttl"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
