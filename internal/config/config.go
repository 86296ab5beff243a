// Package config loads application settings with viper from config.yaml
// and STUDENTSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	envPrefix = "STUDENTSIM"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	AI      AIConfig      `mapstructure:"ai"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AIConfig selects the completion backend. The API key is deliberately not
// part of it: it is read through Credentials on every completion.
type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RetryConfig struct {
	BackoffSeconds int `mapstructure:"backoff_seconds"`
	MaxRetries     int `mapstructure:"max_retries"`
}

type SessionConfig struct {
	IntegrityCheck bool `mapstructure:"integrity_check"`
	TTLMinutes     int  `mapstructure:"ttl_minutes"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

func (c RetryConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds) * time.Second
}

func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// NewViper returns a viper instance with defaults registered, config.yaml
// read from configDir (or ./config and . when empty) and environment
// overrides bound. A missing config file is not an error.
func NewViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY is the secret name the hosted demo used.
	if err := v.BindEnv("ai.api_key", envPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080"})

	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("retry.backoff_seconds", 30)
	v.SetDefault("retry.max_retries", 1)

	v.SetDefault("session.integrity_check", true)
	v.SetDefault("session.ttl_minutes", 120)

	v.SetDefault("log.debug", false)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
	case ProviderOpenAI:
		if c.AI.BaseURL == "" {
			return errors.New("ai.base_url is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown ai.provider %q (want %q or %q)", c.AI.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	if c.Retry.BackoffSeconds < 0 {
		return fmt.Errorf("retry.backoff_seconds must not be negative, got %d", c.Retry.BackoffSeconds)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", c.Retry.MaxRetries)
	}
	return nil
}

// Credentials reads the API key from viper each time it is asked, so a key
// rotated in the environment is picked up by the next completion.
type Credentials struct {
	v *viper.Viper
}

func NewCredentials(v *viper.Viper) *Credentials {
	return &Credentials{v: v}
}

func (c *Credentials) APIKey() (string, error) {
	key := strings.TrimSpace(c.v.GetString("ai.api_key"))
	if key == "" {
		return "", fmt.Errorf("no API key configured (set ai.api_key, %s_AI_API_KEY or GEMINI_API_KEY)", envPrefix)
	}
	return key, nil
}
