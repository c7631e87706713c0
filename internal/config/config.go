package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DatabaseDSN string
	UsersFile   string
	UploadDir   string
	JWTSecret   string
	JWTExpiry   time.Duration
	DetectDelay time.Duration
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseDSN: getEnv("DATABASE_DSN", "data/plates.db"),
		UsersFile:   getEnv("USERS_FILE", "data/users.json"),
		UploadDir:   getEnv("UPLOAD_DIR", "data/uploads"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:   24 * time.Hour,
		DetectDelay: getDuration("DETECT_DELAY", 2*time.Second),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
