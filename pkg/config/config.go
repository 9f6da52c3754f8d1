package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Client   ClientConfig
	Session  SessionConfig
	Features FeatureConfig
	Export   ExportConfig
	Log      LogConfig
}

// ClientConfig governs how the portal talks to the backend API.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls durable token storage.
type SessionConfig struct {
	Dir string
}

// FeatureConfig toggles optional client behaviour.
type FeatureConfig struct {
	AllowManualRoleOverride bool
}

// ExportConfig controls local export rendering.
type ExportConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Client = ClientConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HTTP_TIMEOUT"), 30*time.Second),
	}

	cfg.Session = SessionConfig{
		Dir: v.GetString("SESSION_DIR"),
	}

	cfg.Features = FeatureConfig{
		AllowManualRoleOverride: v.GetBool("ALLOW_MANUAL_ROLE_OVERRIDE"),
	}

	cfg.Export = ExportConfig{
		Dir: v.GetString("EXPORT_DIR"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("HTTP_TIMEOUT", "30s")

	v.SetDefault("SESSION_DIR", "./.session")
	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("ALLOW_MANUAL_ROLE_OVERRIDE", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
