// Package config loads runtime settings from the environment.
//
// When ENV=dev a .env file in the working directory is loaded first, so
// local development does not need exported variables. Real environment
// variables always win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	DBPath   string
	LogLevel slog.Level

	// JWTSecret signs session tokens. TokenKey seals linked GitHub tokens at
	// rest; it falls back to JWTSecret when unset.
	JWTSecret string
	TokenKey  string

	// Location is used for every calendar-day computation (report periods,
	// day buckets, reflections).
	Location *time.Location

	GitHub GitHubConfig
}

type GitHubConfig struct {
	APIURL      string
	SyncWindow  time.Duration
	SyncWorkers int
}

// Load reads the configuration. It fails on malformed values rather than
// silently falling back, so a typo in PORT does not start the server on 8080.
func Load() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	windowDays, err := getEnvInt("SYNC_WINDOW_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	workers, err := getEnvInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	if windowDays < 1 {
		return Config{}, fmt.Errorf("config: SYNC_WINDOW_DAYS must be positive, got %d", windowDays)
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("config: SYNC_WORKERS must be positive, got %d", workers)
	}

	loc, err := loadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return Config{}, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	tokenKey := strings.TrimSpace(os.Getenv("TOKEN_KEY"))
	if tokenKey == "" {
		tokenKey = jwtSecret
	}

	return Config{
		Port:      port,
		DBPath:    getEnv("DB_PATH", "data/devagenda.db"),
		LogLevel:  level,
		JWTSecret: jwtSecret,
		TokenKey:  tokenKey,
		Location:  loc,
		GitHub: GitHubConfig{
			APIURL:      strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			SyncWindow:  time.Duration(windowDays) * 24 * time.Hour,
			SyncWorkers: workers,
		},
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q", key, valueStr)
	}
	return value, nil
}
