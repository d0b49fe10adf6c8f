// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Display DisplayConfig `toml:"display"`
	Rank    RankConfig    `toml:"rank"`
	Lexicon LexiconConfig `toml:"lexicon"`
}

// DisplayConfig maps gloss display settings.
type DisplayConfig struct {
	MinTier     *string  `toml:"min-tier"`
	PollMs      *int     `toml:"poll-ms"`
	Exclude     []string `toml:"exclude"`
	ExcludeFile *string  `toml:"exclude-file"`
}

// RankConfig maps frequency rank settings.
type RankConfig struct {
	Cutoffs []int `toml:"cutoffs"`
}

// LexiconConfig maps dictionary storage settings.
type LexiconConfig struct {
	DB        *string `toml:"db"`
	CacheSize *int    `toml:"cache-size"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
