package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "@rOpenSci", cfg.Announcement.Mention)
	assert.Equal(t, 300, cfg.Announcement.MaxLength)
	assert.NotEmpty(t, cfg.Sources.FeedURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citebot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sources]
feed_url = "https://example.com/citations.tsv"

[announcement]
max_length = 280
`), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/citations.tsv", cfg.Sources.FeedURL)
	assert.Equal(t, 280, cfg.Announcement.MaxLength)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://doi.org/", cfg.Announcement.DOIResolver)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("does-not-exist.toml")
	assert.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citebot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[announcement]\nmax_length = 0\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
