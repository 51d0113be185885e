package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FrontendConfig holds configuration for the chat frontends (terminal and web).
type FrontendConfig struct {
	BackendURL     string
	BackendTimeout time.Duration
	WebPort        string
	LogLevel       string
	LogFormat      string
}

// frontendFile mirrors the optional TOML file layout.
type frontendFile struct {
	Backend struct {
		URL     string `toml:"url"`
		Timeout string `toml:"timeout"`
	} `toml:"backend"`
	Web struct {
		Port string `toml:"port"`
	} `toml:"web"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// LoadFrontend builds the frontend configuration. Values come from the TOML file at path
// (skipped when path is empty or the file does not exist), then environment variables,
// which always win.
func LoadFrontend(path string) (*FrontendConfig, error) {
	loadDotEnv()

	var file frontendFile
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationError{Key: path, Reason: fmt.Sprintf("could not be parsed: %v", err)}
		}
	}

	cfg := &FrontendConfig{
		BackendURL: strings.TrimRight(getEnv("BACKEND_URL", file.Backend.URL), "/"),
		WebPort:    getEnv("WEB_PORT", orDefault(file.Web.Port, "8501")),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", orDefault(file.Log.Level, "info"))),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", orDefault(file.Log.Format, "console"))),
	}

	if cfg.BackendURL == "" {
		return nil, &ConfigurationError{Key: "BACKEND_URL", Reason: "is required"}
	}
	if err := validateBaseURL("BACKEND_URL", cfg.BackendURL); err != nil {
		return nil, err
	}

	timeout := 60 * time.Second
	if file.Backend.Timeout != "" {
		v, err := time.ParseDuration(file.Backend.Timeout)
		if err != nil || v <= 0 {
			return nil, &ConfigurationError{Key: "backend.timeout", Reason: "must be a positive duration such as 45s"}
		}
		timeout = v
	}
	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", timeout); err != nil {
		return nil, err
	}

	if err := validateLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}

	return cfg, nil
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

// DefaultFrontendConfigPath returns ~/.gynocare/config.toml, or "" if the home directory is unknown.
func DefaultFrontendConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gynocare", "config.toml")
}
