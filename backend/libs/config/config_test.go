package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Auth struct {
		Secret  string        `yaml:"secret"`
		TTL     time.Duration `yaml:"ttl"`
		Enabled bool          `yaml:"enabled"`
	} `yaml:"auth"`
	Origins []string `yaml:"origins" env:"SAMPLE_ORIGINS"`
	Ignored string   `yaml:"ignored" env:"-"`
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: \"9000\"\nauth:\n  secret: from-file\nignored: kept\n"), 0o600))

	t.Setenv(FileEnv, path)
	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("AUTH_TTL", "90s")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("SAMPLE_ORIGINS", "a.example, b.example,")
	t.Setenv("IGNORED", "overridden")

	var cfg sampleConfig
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, 90*time.Second, cfg.Auth.TTL)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins)
	assert.Equal(t, "kept", cfg.Ignored)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv(legacyFileEnv, "")
	t.Setenv("AUTH_ENABLED", "not-a-bool")

	var cfg sampleConfig
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_ENABLED")
}

func TestLoadConfigTargetValidation(t *testing.T) {
	assert.Error(t, LoadConfig(nil))
	var notStruct int
	assert.Error(t, LoadConfig(&notStruct))
	assert.Error(t, LoadConfig(sampleConfig{}))
}

func TestLoadConfigIgnoresEmptyNonStringValues(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv(legacyFileEnv, "")
	t.Setenv("AUTH_ENABLED", "")
	t.Setenv("AUTH_TTL", " ")

	var cfg sampleConfig
	cfg.Auth.Enabled = true
	cfg.Auth.TTL = time.Minute
	require.NoError(t, LoadConfig(&cfg))
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, time.Minute, cfg.Auth.TTL)
}
