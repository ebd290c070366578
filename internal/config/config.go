package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Token    TokenConfig
}

type AppConfig struct {
	Port               string
	Environment        string // matched against environment-typed flags
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type CacheConfig struct {
	FlagTTL         time.Duration
	SubscriptionTTL time.Duration
	CallTimeout     time.Duration
}

type TokenConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Cache: CacheConfig{
			FlagTTL:         time.Duration(getEnvAsInt("FLAG_CACHE_TTL_SECONDS", 300)) * time.Second,
			SubscriptionTTL: time.Duration(getEnvAsInt("SUBSCRIPTION_CACHE_TTL_SECONDS", 600)) * time.Second,
			CallTimeout:     time.Duration(getEnvAsInt("CACHE_CALL_TIMEOUT_MS", 2000)) * time.Millisecond,
		},
		Token: TokenConfig{
			AccessSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessLifetime:  time.Duration(getEnvAsInt("ACCESS_TOKEN_LIFETIME_MINUTES", 15)) * time.Minute,
			RefreshLifetime: time.Duration(getEnvAsInt("REFRESH_TOKEN_LIFETIME_DAYS", 7)) * 24 * time.Hour,
		},
	}

	// Missing signing secrets are a startup failure, never a per-request one.
	if cfg.Token.AccessSecret == "" {
		log.Fatal("Error: ACCESS_TOKEN_SECRET is not set")
	}
	if cfg.Token.RefreshSecret == "" {
		log.Fatal("Error: REFRESH_TOKEN_SECRET is not set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
