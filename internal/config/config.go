package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API    APIConfig
	Cart   CartConfig
	Tokens TokenConfig
	Server ServerConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CartConfig struct {
	DebounceWindow time.Duration
}

type TokenConfig struct {
	Path string // where the credential pair is persisted
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	JWTSecret      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Cart: CartConfig{
			DebounceWindow: getEnvAsDuration("CART_DEBOUNCE_WINDOW", 400*time.Millisecond),
		},
		Tokens: TokenConfig{
			Path: getEnv("TOKEN_FILE", defaultTokenPath()),
		},
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			Host:       getEnv("HOST", "localhost"),
			Env:        getEnv("ENV", "development"),
			JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			AccessTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
			AllowedOrigins: []string{
				getEnv("ALLOWED_ORIGIN", "*"),
			},
		},
	}

	return config, nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pawmart/tokens.json"
	}
	return filepath.Join(home, ".pawmart", "tokens.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
