package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/joho/godotenv"
)

var (
	customLog = logger.NewLogger()
)

// Config holds application configuration values
type Config struct {
	ServerPort      string
	DatabaseDir     string
	DatabaseFile    string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	RateLimit       int           // requests per window per IP, 0 disables limiting
	RateLimitWindow time.Duration // sliding window length
	MaxFormBytes    int64         // largest accepted form body
}

// DefaultMaxFormBytes caps form bodies when MAX_FORM_BYTES is unset or invalid.
const DefaultMaxFormBytes = 1 << 20

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	port := getEnv("SERVER_PORT", "8080")
	dbDir := getEnv("DATABASE_DIRECTORY", "data")
	dbFile := getEnv("DATABASE_FILE", "schemas.db")
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "text")
	origins := getEnv("CORS_ALLOWED_ORIGINS", "-")
	rateStr := getEnv("RATE_LIMIT_REQUESTS", "0")
	windowStr := getEnv("RATE_LIMIT_WINDOW_SECONDS", "60")
	maxFormStr := getEnv("MAX_FORM_BYTES", strconv.Itoa(DefaultMaxFormBytes))

	if dbFile == "" || strings.ContainsAny(dbFile, `/\`) {
		return nil, errors.New("DATABASE_FILE must be a plain file name")
	}

	rate, err := strconv.Atoi(rateStr)
	if err != nil || rate < 0 {
		customLog.Warnf("Invalid RATE_LIMIT_REQUESTS '%s'. Rate limiting disabled. Error: %v", rateStr, err)
		rate = 0
	}

	windowSecs, err := strconv.Atoi(windowStr)
	if err != nil || windowSecs <= 0 {
		customLog.Warnf("Invalid RATE_LIMIT_WINDOW_SECONDS '%s'. Using default 60s. Error: %v", windowStr, err)
		windowSecs = 60
	}

	maxForm, err := strconv.ParseInt(maxFormStr, 10, 64)
	if err != nil || maxForm <= 0 {
		customLog.Warnf("Invalid MAX_FORM_BYTES '%s'. Using default %d. Error: %v", maxFormStr, DefaultMaxFormBytes, err)
		maxForm = DefaultMaxFormBytes
	}

	cfg := &Config{
		ServerPort:      strings.TrimPrefix(port, ":"),
		DatabaseDir:     dbDir,
		DatabaseFile:    dbFile,
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		CORSOrigins:     splitOrigins(origins),
		RateLimit:       rate,
		RateLimitWindow: time.Duration(windowSecs) * time.Second,
		MaxFormBytes:    maxForm,
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, DB: %s/%s", cfg.ServerPort, cfg.DatabaseDir, cfg.DatabaseFile)
	return cfg, nil
}

// splitOrigins turns a comma separated origin list into a slice. "-" means none.
func splitOrigins(raw string) []string {
	if raw == "-" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if fallback == "" {
		customLog.Fatalf("Critical environment variable '%s' is missing and has no fallback.", key)
	}
	return fallback
}
