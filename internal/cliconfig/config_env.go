package cliconfig

import "os"

// ApplyEnvConfig applies SQLSTREAM_* environment variables to the Config.
// Values override file config but are overridden by explicitly set flags
// (tracked via the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", os.Getenv("SQLSTREAM_SOURCE"), &cfg.Source)
	s.setString("play-db", os.Getenv("SQLSTREAM_PLAY_DB"), &cfg.PlayDB)
	s.setString("out", os.Getenv("SQLSTREAM_OUT"), &cfg.Out)
	s.setString("charset", os.Getenv("SQLSTREAM_CHARSET"), &cfg.Charset)

	if err := s.setDuration("duration", os.Getenv("SQLSTREAM_DURATION"), &cfg.Duration); err != nil {
		return err
	}
	if err := s.setIntFromString("fps", os.Getenv("SQLSTREAM_FPS"), &cfg.FPS); err != nil {
		return err
	}
	if err := s.setIntFromString("width", os.Getenv("SQLSTREAM_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("height", os.Getenv("SQLSTREAM_HEIGHT"), &cfg.Height); err != nil {
		return err
	}

	s.setBoolFromString("color", os.Getenv("SQLSTREAM_COLOR"), &cfg.Color)

	return nil
}
