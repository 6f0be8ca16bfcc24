// Package config reads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/examprep/cbt/internal/dictionary"
	"github.com/examprep/cbt/internal/llm"
	"github.com/examprep/cbt/internal/questionbank"
)

// Config is the resolved process configuration. The database path is not
// here: CBT_DB is read by store.DefaultDBPath.
type Config struct {
	APIURL        string
	AccessToken   string
	DictionaryURL string
	Offline       bool
	LogLevel      slog.Level

	// AppOrigin and AppVersion configure the offline proxy.
	AppOrigin  string
	AppVersion string
	ProxyAddr  string

	LLM llm.Config
}

// Load reads envFiles (default ".env") into the environment without
// overriding variables that are already set, then builds the Config. A
// missing env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		APIURL:        getEnvOrDefault("CBT_API_URL", questionbank.DefaultBaseURL),
		AccessToken:   os.Getenv("CBT_ACCESS_TOKEN"),
		DictionaryURL: getEnvOrDefault("CBT_DICTIONARY_URL", dictionary.DefaultBaseURL),
		AppOrigin:     getEnvOrDefault("CBT_APP_ORIGIN", "http://localhost:5173"),
		AppVersion:    getEnvOrDefault("CBT_APP_VERSION", "1.0.0"),
		ProxyAddr:     getEnvOrDefault("CBT_PROXY_ADDR", "127.0.0.1:8787"),
		LLM:           llmConfig(),
	}

	if v := os.Getenv("CBT_OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CBT_OFFLINE: %w", err)
		}
		cfg.Offline = b
	}
	if v := os.Getenv("CBT_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("CBT_LOG_LEVEL: %w", err)
		}
	} else {
		cfg.LogLevel = slog.LevelWarn
	}
	return cfg, nil
}

// llmConfig honours an explicit CBT_LLM_PROVIDER, otherwise picks the first
// provider with a standard API key set. With neither, the default provider
// is returned without a key and fails validation.
func llmConfig() llm.Config {
	if os.Getenv("CBT_LLM_PROVIDER") != "" {
		return llm.ConfigFromEnv()
	}
	if cfg, ok := llm.DiscoverConfig(); ok {
		return cfg
	}
	return llm.ConfigFromEnv()
}

// AIConfigured reports whether the selected AI provider has its credentials.
func (c Config) AIConfigured() bool {
	return c.LLM.Validate() == nil
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
