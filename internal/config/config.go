package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string   `mapstructure:"PORT"`
	Env               string   `mapstructure:"ENV"`
	GoogleAPIKey      string   `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel       string   `mapstructure:"GEMINI_MODEL"`
	DataFile          string   `mapstructure:"DATA_FILE"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int      `mapstructure:"RATE_LIMIT_BURST"`
	SessionTTLMinutes int      `mapstructure:"SESSION_TTL_MINUTES"`
	LLMTimeoutSeconds int      `mapstructure:"LLM_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-pro")
	v.SetDefault("DATA_FILE", "hypothetical_patient_data.csv")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SESSION_TTL_MINUTES", 60)
	v.SetDefault("LLM_TIMEOUT_SECONDS", 60)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("GOOGLE_API_KEY")
	v.BindEnv("GEMINI_MODEL")
	v.BindEnv("DATA_FILE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("SESSION_TTL_MINUTES")
	v.BindEnv("LLM_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DiagnosisEnabled reports whether the external model collaborator can be
// used. A missing key disables the diagnosis feature but never the CRUD
// surface.
func (c *Config) DiagnosisEnabled() bool {
	return c.GoogleAPIKey != ""
}

// Validate checks that the configuration is safe to run. The model API key
// is deliberately not required: the server starts without it and the
// diagnosis endpoints report a configuration error instead.
func (c *Config) Validate() error {
	if c.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes)
	}
	if c.LLMTimeoutSeconds <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive, got %d", c.LLMTimeoutSeconds)
	}
	return nil
}
