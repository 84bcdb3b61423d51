// Package config provides configuration management for cover-art-downloader.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings as JSON, TOML or YAML
//   - Overrides from .env files and COVERART_* environment variables
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Covers go to Artists/{artist}/{album}/cover.jpg
//	// Albums credited to other artists are filtered out
//	// One download at a time
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	// A missing file yields the defaults
//
// # Environment
//
//	_ = config.LoadEnv(".env")
//	err := settings.ApplyEnv()
//
// Precedence, lowest first: defaults, settings file, environment, command
// line flags.
package config
