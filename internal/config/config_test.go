package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/superdocs",
		"gemini_api_key": "test-key",
		"rank_limit": 20,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/superdocs", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, 20, cfg.RankLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")

	cfg = &Config{Port: 8080}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeRankLimit(t *testing.T) {
	cfg := &Config{RankLimit: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rank_limit")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("PORT", "3000")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, "env-token", cfg.GitHubToken)
	assert.Equal(t, 3000, cfg.Port)
}

func TestFromEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := FromEnv()
	assert.Equal(t, 0, cfg.Port)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{GeminiAPIKey: "explicit-key"}
	defaults := Config{
		Port:         8080,
		DatabaseURL:  "postgres://default/db",
		GeminiAPIKey: "default-key",
		RankLimit:    15,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "postgres://default/db", merged.DatabaseURL)
	assert.Equal(t, "explicit-key", merged.GeminiAPIKey)
	assert.Equal(t, 15, merged.RankLimit)
}

func TestMergeWithDefaults_ExplicitWins(t *testing.T) {
	cfg := Config{Port: 9999, DatabaseURL: "postgres://mine/db"}
	defaults := Config{Port: 8080, DatabaseURL: "postgres://default/db"}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, 9999, merged.Port)
	assert.Equal(t, "postgres://mine/db", merged.DatabaseURL)
}
