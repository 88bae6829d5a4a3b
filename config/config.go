package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the server.
// Tags use mapstructure for Viper unmarshalling.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Session tokens
	JWTSecretKey  string `mapstructure:"JWT_SECRET_KEY"`
	SessionTTLMin int    `mapstructure:"SESSION_TTL_MIN"`
	SessionSecret string `mapstructure:"SESSION_SECRET"` // cookie store for the OAuth handshake

	// Redirect policy
	BaseURL       string `mapstructure:"BASE_URL"`
	DefaultLocale string `mapstructure:"DEFAULT_LOCALE"`

	// Content generation
	GeminiAPIKey         string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel          string `mapstructure:"GEMINI_MODEL"`
	GenerationTimeoutSec int    `mapstructure:"GENERATION_TIMEOUT_SEC"`

	// Session cache. Empty REDIS_ADDR selects the in-memory store.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// OAuth provider credentials
	GoogleClientID       string `mapstructure:"AUTH_GOOGLE_ID"`
	GoogleClientSecret   string `mapstructure:"AUTH_GOOGLE_SECRET"`
	FacebookClientID     string `mapstructure:"AUTH_FACEBOOK_ID"`
	FacebookClientSecret string `mapstructure:"AUTH_FACEBOOK_SECRET"`
	LinkedInClientID     string `mapstructure:"AUTH_LINKEDIN_ID"`
	LinkedInClientSecret string `mapstructure:"AUTH_LINKEDIN_SECRET"`
	TwitterClientID      string `mapstructure:"AUTH_TWITTER_ID"`
	TwitterClientSecret  string `mapstructure:"AUTH_TWITTER_SECRET"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("pulsedash")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/pulsedash/")
	v.AddConfigPath("$HOME/.pulsedash")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/pulsedash_dev")
	v.SetDefault("MONGO_DB_NAME", "pulsedash_dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("OTEL_SERVICE_NAME", "pulsedash-server")
	v.SetDefault("JWT_SECRET_KEY", "a_very_secret_jwt_key_change_me") // CHANGE IN PRODUCTION
	v.SetDefault("SESSION_TTL_MIN", 60*24)                            // 24 hours
	v.SetDefault("SESSION_SECRET", "a_very_secret_cookie_key_change_me")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GENERATION_TIMEOUT_SEC", 30)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
