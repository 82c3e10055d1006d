// Package cliconfig holds the CLI configuration for sqlstream and the
// defaults -> file -> env -> flags precedence machinery.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/relvid/sqlstream/internal/adapters/encode"
	"github.com/relvid/sqlstream/internal/domain"
)

// Config holds CLI configuration for sqlstream.
type Config struct {
	// Source is a local media path or remote locator to ingest.
	Source string

	// PlayDB is the path of a persisted store to load and play.
	// Mutually exclusive with Source.
	PlayDB string

	// Out is an optional destination for persisting the ingested store.
	Out string

	// NoPlay persists only; no playback session is started.
	NoPlay bool

	Duration time.Duration
	FPS      int

	// Color selects TrueColor output; default is grayscale characters.
	Color   bool
	Charset string

	// Width and Height override the terminal-derived geometry. Zero means
	// derive from the terminal at ingestion time.
	Width  int
	Height int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Duration: 60 * time.Second,
		FPS:      30,
		Charset:  encode.DefaultCharset,
	}
}

// ColorMode returns the domain encoding selected by the config.
func (c *Config) ColorMode() domain.ColorMode {
	if c.Color {
		return domain.TrueColor
	}
	return domain.Grayscale
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Source == "" && c.PlayDB == "" {
		return fmt.Errorf("either source or play-db is required")
	}
	if c.Source != "" && c.PlayDB != "" {
		return fmt.Errorf("source and play-db are mutually exclusive")
	}
	if c.PlayDB != "" && c.Out != "" {
		return fmt.Errorf("out has no effect with play-db")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if c.Charset == "" {
		c.Charset = encode.DefaultCharset
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("width and height must not be negative")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
