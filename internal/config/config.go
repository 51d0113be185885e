package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Config holds all configuration for the backend relay.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	LLMTemperature     float32
	RewriteTemperature float32
	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModelName string
	CollectionName     string
	QdrantURL          string
	QdrantVectorSize   int
	DBPath             string
	SearchK            int
	RequestTimeout     time.Duration
	APIPort            string
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	llmBaseURL := getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	llmAPIKey := getEnv("LLM_API_KEY", "")

	cfg := &Config{
		LLMBaseURL:         llmBaseURL,
		LLMModelName:       getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMAPIKey:          llmAPIKey,
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", llmBaseURL),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", llmAPIKey),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
		CollectionName:     strings.TrimSpace(getEnv("COLLECTION_NAME", "")),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		DBPath:             getEnv("DB_PATH", "./data/gynocare.db"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}

	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		return nil, &ConfigurationError{Key: "LLM_API_KEY", Reason: "is required"}
	}
	if cfg.CollectionName == "" {
		return nil, &ConfigurationError{Key: "COLLECTION_NAME", Reason: "is required"}
	}

	if err := validateBaseURL("LLM_BASE_URL", cfg.LLMBaseURL); err != nil {
		return nil, err
	}
	if err := validateBaseURL("EMBEDDING_BASE_URL", cfg.EmbeddingBaseURL); err != nil {
		return nil, err
	}

	var err error
	if cfg.LLMTemperature, err = getFloat32("LLM_TEMPERATURE", 0.1); err != nil {
		return nil, err
	}
	if cfg.RewriteTemperature, err = getFloat32("REWRITE_TEMPERATURE", 0.0); err != nil {
		return nil, err
	}

	// Must match the output size of the embedding model; all-MiniLM-L6-v2 emits 384 dimensions.
	if cfg.QdrantVectorSize, err = getInt("QDRANT_VECTOR_SIZE", 384); err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize <= 0 {
		return nil, &ConfigurationError{Key: "QDRANT_VECTOR_SIZE", Reason: "must be greater than 0"}
	}

	if cfg.SearchK, err = getInt("SEARCH_K", 3); err != nil {
		return nil, err
	}
	if cfg.SearchK < 1 || cfg.SearchK > 20 {
		return nil, &ConfigurationError{Key: "SEARCH_K", Reason: "must be between 1 and 20"}
	}

	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if err := validateLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the nearest .env file, walking up at most five directories.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func validateLogging(level, format string) error {
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigurationError{Key: "LOG_LEVEL", Reason: fmt.Sprintf("has unknown value %q", level)}
	}
	switch format {
	case "console", "json":
	default:
		return &ConfigurationError{Key: "LOG_FORMAT", Reason: fmt.Sprintf("has unknown value %q", format)}
	}
	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ConfigurationError{Key: key, Reason: fmt.Sprintf("must be an absolute http(s) URL, got %q", raw)}
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Reason: "must be a valid integer"}
	}
	return v, nil
}

func getFloat32(key string, defaultValue float32) (float32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil || v < 0 || v > 2 {
		return 0, &ConfigurationError{Key: key, Reason: "must be a number between 0 and 2"}
	}
	return float32(v), nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, &ConfigurationError{Key: key, Reason: "must be a positive duration such as 45s"}
	}
	return v, nil
}
