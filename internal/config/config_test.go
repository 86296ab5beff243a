package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	v, err := NewViper(t.TempDir())
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 30*time.Second, cfg.Retry.Backoff())
	assert.Equal(t, 1, cfg.Retry.MaxRetries)
	assert.True(t, cfg.Session.IntegrityCheck)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL())
	assert.False(t, cfg.Log.Debug)
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: ":9090"
ai:
  provider: "OpenAI"
  base_url: "http://localhost:11434/v1"
  model: "llama3"
retry:
  backoff_seconds: 5
session:
  integrity_check: false
`)
	v, err := NewViper(dir)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.BaseURL)
	assert.Equal(t, "llama3", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.Retry.Backoff())
	assert.False(t, cfg.Session.IntegrityCheck)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STUDENTSIM_SERVER_PORT", ":7070")
	t.Setenv("STUDENTSIM_RETRY_MAX_RETRIES", "0")

	v, err := NewViper(t.TempDir())
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Port)
	assert.Zero(t, cfg.Retry.MaxRetries)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "ai:\n  provider: \"claude\"\n"},
		{"openai without base url", "ai:\n  provider: \"openai\"\n"},
		{"zero timeout", "ai:\n  timeout_seconds: 0\n"},
		{"negative backoff", "retry:\n  backoff_seconds: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewViper(writeConfig(t, tt.body))
			require.NoError(t, err)

			_, err = Load(v)
			assert.Error(t, err)
		})
	}
}

func TestNewViperMalformedFile(t *testing.T) {
	_, err := NewViper(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestCredentialsReadEachCall(t *testing.T) {
	t.Setenv("STUDENTSIM_AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	v, err := NewViper(t.TempDir())
	require.NoError(t, err)
	creds := NewCredentials(v)

	_, err = creds.APIKey()
	require.Error(t, err)

	t.Setenv("GEMINI_API_KEY", "gemini-secret")
	key, err := creds.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "gemini-secret", key)

	t.Setenv("STUDENTSIM_AI_API_KEY", "preferred-secret")
	key, err = creds.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "preferred-secret", key)
}
