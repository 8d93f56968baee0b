package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	CORSOrigin string
	LogLevel   string

	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGODB_DATABASE", "notes-app"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		TokenSecret: requireEnv("ACCESS_TOKEN_SECRET", &missing),
		TokenIssuer: getEnv("TOKEN_ISSUER", "notesapp"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func requireEnv(key string, missing *[]string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		*missing = append(*missing, key)
	}
	return val
}
