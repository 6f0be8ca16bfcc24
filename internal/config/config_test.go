package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examprep/cbt/internal/questionbank"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CBT_API_URL", "CBT_ACCESS_TOKEN", "CBT_OFFLINE", "CBT_LOG_LEVEL", "CBT_LLM_PROVIDER",
		"CBT_GROK_API_KEY", "CBT_APP_ORIGIN", "XAI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, questionbank.DefaultBaseURL, cfg.APIURL)
	assert.False(t, cfg.Offline)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "grok", cfg.LLM.Provider)
	assert.False(t, cfg.AIConfigured())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"CBT_API_URL=http://bank.test\nCBT_ACCESS_TOKEN=tok\nCBT_OFFLINE=true\nCBT_LOG_LEVEL=debug\nXAI_API_KEY=xai-key\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://bank.test", cfg.APIURL)
	assert.Equal(t, "tok", cfg.AccessToken)
	assert.True(t, cfg.Offline)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "grok", cfg.LLM.Provider)
	assert.Equal(t, "xai-key", cfg.LLM.Grok.APIKey)
	assert.True(t, cfg.AIConfigured())
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CBT_API_URL", "http://from-env.test")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CBT_API_URL=http://from-file.test\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env.test", cfg.APIURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("CBT_OFFLINE", "sometimes")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	os.Unsetenv("CBT_OFFLINE")
	t.Setenv("CBT_LOG_LEVEL", "loud")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")
}
