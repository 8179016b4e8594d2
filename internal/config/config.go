package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Assistant provider names
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	OIDC      OIDCConfig
	JWT       JWTConfig
	Assistant AssistantConfig
	Autosave  AutosaveConfig
	RateLimit RateLimitConfig
	Demo      DemoConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OIDCConfig configures the optional OAuth-style sign-in provider.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AssistantConfig selects and bounds the external text-generation provider.
type AssistantConfig struct {
	Provider   string
	Model      string
	APIKey     string
	OllamaHost string
	MaxTokens  int
	// Timeout is the per-request ceiling for one assistant call.
	Timeout time.Duration
}

type AutosaveConfig struct {
	Debounce time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// DemoConfig gates the built-in demo credential users. Demo mode also
// tolerates a missing JWT secret; outside demo mode the secret is required
// and startup fails without it.
type DemoConfig struct {
	Enabled bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	viper.SetDefault("ASSISTANT_PROVIDER", ProviderOpenAI)
	viper.SetDefault("ASSISTANT_MODEL", "gpt-4o-mini")
	viper.SetDefault("ASSISTANT_MAX_TOKENS", 500)
	viper.SetDefault("ASSISTANT_TIMEOUT_SECONDS", 30)
	viper.SetDefault("AUTOSAVE_DEBOUNCE_MS", 2000)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		OIDC: OIDCConfig{
			IssuerURL:    viper.GetString("OIDC_ISSUER_URL"),
			ClientID:     viper.GetString("OIDC_CLIENT_ID"),
			ClientSecret: viper.GetString("OIDC_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Assistant: AssistantConfig{
			Provider:   viper.GetString("ASSISTANT_PROVIDER"),
			Model:      viper.GetString("ASSISTANT_MODEL"),
			APIKey:     os.Getenv("ASSISTANT_API_KEY"),
			OllamaHost: viper.GetString("OLLAMA_HOST"),
			MaxTokens:  viper.GetInt("ASSISTANT_MAX_TOKENS"),
			Timeout:    time.Duration(viper.GetInt("ASSISTANT_TIMEOUT_SECONDS")) * time.Second,
		},
		Autosave: AutosaveConfig{
			Debounce: time.Duration(viper.GetInt("AUTOSAVE_DEBOUNCE_MS")) * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Demo: DemoConfig{
			Enabled: viper.GetBool("DEMO_MODE"),
		},
	}

	// Secrets must be supplied explicitly outside demo mode; there is no
	// baked-in default.
	if cfg.JWT.Secret == "" && !cfg.Demo.Enabled {
		return nil, fmt.Errorf("JWT_SECRET is required when DEMO_MODE is not enabled")
	}

	return cfg, nil
}
