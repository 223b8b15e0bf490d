package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses Go duration strings ("200ms", "10m") from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like 600s: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken  string `yaml:"bot_token"`
		Signature string `yaml:"signature"`
	} `yaml:"telegram"`
	Authority struct {
		BaseURL           string   `yaml:"base_url"`
		CacheTTL          Duration `yaml:"cache_ttl"`
		MaxRetries        int      `yaml:"max_retries"`
		RetryDelay        Duration `yaml:"retry_delay"`
		PerAttemptTimeout Duration `yaml:"per_attempt_timeout"`
	} `yaml:"authority"`
	LLM struct {
		Provider     string `yaml:"provider"`
		OllamaURL    string `yaml:"ollama_url"`
		OllamaModel  string `yaml:"ollama_model"`
		OpenAIAPIKey string `yaml:"openai_api_key"`
		OpenAIModel  string `yaml:"openai_model"`
	} `yaml:"llm"`
	Database struct {
		SQLitePath    string   `yaml:"sqlite_path"`
		HistoryMaxAge Duration `yaml:"history_max_age"`
	} `yaml:"database"`
	Schedule struct {
		SweepCron string `yaml:"sweep_cron"`
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("BOT_SIGNATURE"); v != "" {
		cfg.Telegram.Signature = v
	}
	if v := os.Getenv("AUTHORITY_URL"); v != "" {
		cfg.Authority.BaseURL = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.OllamaModel = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.LLM.OpenAIModel = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Authority.CacheTTL == 0 {
		cfg.Authority.CacheTTL = Duration(600 * time.Second)
	}
	if cfg.Authority.MaxRetries == 0 {
		cfg.Authority.MaxRetries = 2
	}
	if cfg.Authority.RetryDelay == 0 {
		cfg.Authority.RetryDelay = Duration(200 * time.Millisecond)
	}
	if cfg.Authority.PerAttemptTimeout == 0 {
		cfg.Authority.PerAttemptTimeout = Duration(5 * time.Second)
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.OllamaURL == "" {
		cfg.LLM.OllamaURL = "http://localhost:11434"
	}
	if cfg.LLM.OllamaModel == "" {
		cfg.LLM.OllamaModel = "llama3.1"
	}
	if cfg.LLM.OpenAIModel == "" {
		cfg.LLM.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.Database.HistoryMaxAge == 0 {
		cfg.Database.HistoryMaxAge = Duration(30 * 24 * time.Hour)
	}
	if cfg.Schedule.SweepCron == "" {
		cfg.Schedule.SweepCron = "0 */5 * * * *"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 3 * * *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Authority.BaseURL == "" {
		return fmt.Errorf("authority.base_url is required")
	}
	if c.LLM.Provider != "ollama" && c.LLM.Provider != "openai" {
		return fmt.Errorf("llm.provider must be ollama or openai, got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.OpenAIAPIKey == "" {
		return fmt.Errorf("llm.openai_api_key is required for the openai provider")
	}
	return nil
}
