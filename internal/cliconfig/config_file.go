package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Source   string `toml:"source"`
	PlayDB   string `toml:"play_db"`
	Out      string `toml:"out"`
	Duration string `toml:"duration"`
	FPS      int    `toml:"fps"`
	Color    *bool  `toml:"color"`
	Charset  string `toml:"charset"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.sqlstream/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".sqlstream", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", fc.Source, &cfg.Source)
	s.setString("play-db", fc.PlayDB, &cfg.PlayDB)
	s.setString("out", fc.Out, &cfg.Out)
	s.setString("charset", fc.Charset, &cfg.Charset)

	if err := s.setDuration("duration", fc.Duration, &cfg.Duration); err != nil {
		return err
	}

	s.setInt("fps", fc.FPS, &cfg.FPS)
	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)

	s.setBool("color", fc.Color, &cfg.Color)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
