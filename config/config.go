// Package config loads AppGenie settings from a JSON file with environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level application configuration.
type Config struct {
	ServerAddr string `json:"server_addr" env:"APPGENIE_ADDR" env-default:":8080"`

	Log LogConfig `json:"log"`
	LLM LLMConfig `json:"llm"`
	BQ  *BQConfig `json:"bigquery,omitempty"`
	SF  *SFConfig `json:"snowflake,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `json:"level" env:"APPGENIE_LOG_LEVEL" env-default:"info"`
	Encoding string `json:"encoding" env:"APPGENIE_LOG_ENCODING" env-default:"console"`
	Output   string `json:"output" env:"APPGENIE_LOG_OUTPUT"`
}

// LLMConfig selects the completion provider. The API key is never stored in the
// file; APIKeyEnv names the environment variable that holds it.
type LLMConfig struct {
	Provider  string `json:"provider" env:"APPGENIE_LLM_PROVIDER" env-default:"openai"`
	Model     string `json:"model" env:"APPGENIE_LLM_MODEL" env-default:"gpt-4o"`
	APIKeyEnv string `json:"api_key_env" env:"APPGENIE_LLM_API_KEY_ENV" env-default:"OPENAI_API_KEY"`
	BaseURL   string `json:"base_url" env:"APPGENIE_LLM_BASE_URL"`

	// Resolved from APIKeyEnv at load time, not serialized.
	APIKey string `json:"-"`
}

// BQConfig holds defaults for the BigQuery helper.
type BQConfig struct {
	ProjectID       string `json:"project_id" env:"APPGENIE_BQ_PROJECT"`
	CredentialsFile string `json:"credentials_file" env:"APPGENIE_BQ_CREDENTIALS"`
}

// SFConfig holds defaults for the Snowflake helper.
type SFConfig struct {
	Account     string `json:"account" env:"APPGENIE_SF_ACCOUNT"`
	User        string `json:"user" env:"APPGENIE_SF_USER"`
	PasswordEnv string `json:"password_env" env:"APPGENIE_SF_PASSWORD_ENV" env-default:"SNOWFLAKE_PASSWORD"`
	Database    string `json:"database" env:"APPGENIE_SF_DATABASE"`
	Schema      string `json:"schema" env:"APPGENIE_SF_SCHEMA"`
	Warehouse   string `json:"warehouse" env:"APPGENIE_SF_WAREHOUSE"`
}

// Load reads the config file at path (optional) and applies environment
// overrides. A missing path loads from environment and defaults only.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from env: %w", err)
	}

	if cfg.LLM.APIKeyEnv != "" {
		cfg.LLM.APIKey = os.Getenv(cfg.LLM.APIKeyEnv)
	}
	return cfg, nil
}

// Validate checks the fields required to talk to the completion API.
func (c Config) Validate() error {
	if c.LLM.Provider == "" {
		return errors.New("llm.provider is required")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("completion api key missing; set %s", c.LLM.APIKeyEnv)
	}
	return nil
}
