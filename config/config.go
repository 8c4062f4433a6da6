package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlSources holds the remote endpoints the bot reads from.
type TomlSources struct {
	FeedURL      string `toml:"feed_url"`
	HandlesURL   string `toml:"handles_url"`
	AssetBaseURL string `toml:"asset_base_url"`
}

// TomlAnnouncement controls how announcements are rendered.
type TomlAnnouncement struct {
	Mention     string `toml:"mention"`
	TopicTag    string `toml:"topic_tag"`
	DOIResolver string `toml:"doi_resolver"`
	MaxLength   int    `toml:"max_length"`
}

// TomlArchive holds archive database settings.
type TomlArchive struct {
	Database string `toml:"database"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Sources      TomlSources      `toml:"sources"`
	Announcement TomlAnnouncement `toml:"announcement"`
	Archive      TomlArchive      `toml:"archive"`
}

// Defaults returns the configuration for the rOpenSci citations deployment.
func Defaults() *TomlConfig {
	return &TomlConfig{
		Sources: TomlSources{
			FeedURL:      "https://raw.githubusercontent.com/ropensci/roapi/master/data/citations.tsv",
			HandlesURL:   "https://raw.githubusercontent.com/ropensci/roapi/master/data/package_handle_mapping.csv",
			AssetBaseURL: "https://raw.githubusercontent.com/ropensci/roapi/master/data/img/",
		},
		Announcement: TomlAnnouncement{
			Mention:     "@rOpenSci",
			TopicTag:    "#rstats",
			DOIResolver: "https://doi.org/",
			MaxLength:   300,
		},
		Archive: TomlArchive{
			Database: "citebot.db",
		},
	}
}

func LoadConfig(path string) (*TomlConfig, error) {
	config := Defaults()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if config.Announcement.MaxLength <= 0 {
		return nil, fmt.Errorf("announcement.max_length must be positive")
	}

	return config, nil
}
