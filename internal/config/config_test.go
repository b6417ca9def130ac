package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versotym/rhymetagger"
)

func clearEnv(t *testing.T) {
	t.Setenv("RHYMETAGGER_DB", "")
	t.Setenv("RHYMETAGGER_ADDR", "")
	t.Setenv("RHYMETAGGER_LANG", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tagger.Window != 4 {
		t.Errorf("expected Window=4, got %d", cfg.Tagger.Window)
	}
	if cfg.Tagger.ScoreKind != rhymetagger.ScoreT {
		t.Errorf("expected t-score, got %s", cfg.Tagger.ScoreKind)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Server.Addr)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Tagger.Language = "cs"
	cfg.Tagger.ScoreKind = rhymetagger.ScoreDice
	cfg.Tagger.StanzaLimit = true
	cfg.Store.Path = "/tmp/corpus.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tagger:\n  window: 6\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Tagger.Window)
	assert.Equal(t, 0.95, cfg.Tagger.MinProbability)
	assert.Equal(t, "rhymetagger.db", cfg.Store.Path)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RHYMETAGGER_DB", "/data/poems.db")
	t.Setenv("RHYMETAGGER_ADDR", "127.0.0.1:9000")
	t.Setenv("RHYMETAGGER_LANG", "de")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/poems.db", cfg.Store.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "de", cfg.Tagger.Language)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad language", func(c *Config) { c.Tagger.Language = "not a tag!" }},
		{"zero window", func(c *Config) { c.Tagger.Window = 0 }},
		{"unknown score", func(c *Config) { c.Tagger.ScoreKind = "chi2" }},
		{"unknown alphabet", func(c *Config) { c.Tagger.Alphabet = "xsampa" }},
		{"missing alphabet file", func(c *Config) { c.AlphabetFile = "/nonexistent/alphabet.txt" }},
		{"empty store", func(c *Config) { c.Store.Path = "" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidateLanguageSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tagger.Language = "??"
	assert.ErrorIs(t, cfg.Validate(), rhymetagger.ErrInvalidLanguage)
}

func TestLogger(t *testing.T) {
	l, err := LoggingConfig{Level: "warn", Format: "console"}.Logger(true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1), "verbose should enable debug")
}
