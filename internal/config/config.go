package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the lead-intake voice service.
type Config struct {
	BindAddr         string
	PublicURL        string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	CompanyName string

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITimeout     time.Duration
	OpenAITemperature float64

	DatabaseURL string

	QualifyThresholdUSD int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		PublicURL:        strings.TrimRight(trimmedEnv("APP_PUBLIC_URL"), "/"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "leadline"),
		AllowAnyOrigin:   false,
		CompanyName:      envOrDefault("COMPANY_NAME", "Legacy Prime Construction"),
		OpenAIAPIKey:     trimmedEnv("OPENAI_API_KEY"),
		OpenAIBaseURL:    envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		// Twilio gives a webhook ~15s; the completion call must finish well inside that.
		OpenAITimeout:       6 * time.Second,
		OpenAITemperature:   0.7,
		DatabaseURL:         trimmedEnv("DATABASE_URL"),
		QualifyThresholdUSD: 10000,
		ShutdownTimeout:     15 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.OpenAITimeout, err = durationFromEnv("OPENAI_TIMEOUT", cfg.OpenAITimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.OpenAITemperature, err = floatFromEnv("OPENAI_TEMPERATURE", cfg.OpenAITemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.QualifyThresholdUSD, err = intFromEnv("LEAD_QUALIFY_THRESHOLD_USD", cfg.QualifyThresholdUSD)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}
	if cfg.OpenAITimeout < time.Second || cfg.OpenAITimeout > 12*time.Second {
		return Config{}, fmt.Errorf("OPENAI_TIMEOUT must be between 1s and 12s")
	}
	if cfg.OpenAITemperature < 0 || cfg.OpenAITemperature > 2 {
		return Config{}, fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
	}
	if cfg.QualifyThresholdUSD <= 0 {
		return Config{}, fmt.Errorf("LEAD_QUALIFY_THRESHOLD_USD must be positive")
	}

	return cfg, nil
}

// WebhookURL is the absolute action URL the telephony gateway posts the next turn to.
func (c Config) WebhookURL() string {
	if c.PublicURL == "" {
		return "/twilio/voice"
	}
	return c.PublicURL + "/twilio/voice"
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
