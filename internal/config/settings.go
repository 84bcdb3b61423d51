package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when a settings file extension is not one of
// .json, .toml, .yaml or .yml.
var ErrUnknownFormat = errors.New("unknown settings file format")

// Environment variables read by ApplyEnv.
const (
	EnvOutput      = "COVERART_OUTPUT"
	EnvCacheDir    = "COVERART_CACHE_DIR"
	EnvUserAgent   = "COVERART_USER_AGENT"
	EnvConcurrency = "COVERART_CONCURRENCY"
	EnvNoFilter    = "COVERART_NO_FILTER"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputRoot    string `json:"output_root" toml:"output_root" yaml:"output_root"`
	CoverFileName string `json:"cover_file_name" toml:"cover_file_name" yaml:"cover_file_name"`
	PrintJSON     bool   `json:"print_json" toml:"print_json" yaml:"print_json"`

	// Catalog settings
	SearchEndpoint string `json:"search_endpoint" toml:"search_endpoint" yaml:"search_endpoint"`
	LookupEndpoint string `json:"lookup_endpoint" toml:"lookup_endpoint" yaml:"lookup_endpoint"`
	ArtworkBase    string `json:"artwork_base" toml:"artwork_base" yaml:"artwork_base"`
	FilterByArtist bool   `json:"filter_by_artist" toml:"filter_by_artist" yaml:"filter_by_artist"`

	// HTTP settings
	UserAgent      string `json:"user_agent" toml:"user_agent" yaml:"user_agent"`
	RequestTimeout int    `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"` // seconds, 0 disables
	CacheDir       string `json:"cache_dir" toml:"cache_dir" yaml:"cache_dir"`

	// Download settings
	MaxConcurrentDownloads int `json:"max_concurrent_downloads" toml:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`

	// Cover art settings
	ConvertCoverToJPG bool `json:"convert_cover_to_jpg" toml:"convert_cover_to_jpg" yaml:"convert_cover_to_jpg"`
	CoverMaxSize      int  `json:"cover_max_size" toml:"cover_max_size" yaml:"cover_max_size"` // 0 keeps the original size
	EmbedInTags       bool `json:"embed_in_tags" toml:"embed_in_tags" yaml:"embed_in_tags"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputRoot:    "Artists",
		CoverFileName: "cover.jpg",
		PrintJSON:     true,

		SearchEndpoint: "https://itunes.apple.com/search",
		LookupEndpoint: "https://itunes.apple.com/lookup",
		ArtworkBase:    "https://a1.mzstatic.com/us/r1000/0/",
		FilterByArtist: true,

		UserAgent:      "CoverArtDownloader",
		RequestTimeout: 60,

		MaxConcurrentDownloads: 1,
	}
}

// Load reads settings from a JSON, TOML or YAML file, chosen by extension.
//
// A missing file yields the defaults. Options absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	switch formatOf(path) {
	case "json":
		err = json.Unmarshal(data, settings)
	case "toml":
		err = toml.Unmarshal(data, settings)
	case "yaml":
		err = yaml.Unmarshal(data, settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a file in the format chosen by its extension.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch formatOf(path) {
	case "json":
		data, err = json.MarshalIndent(s, "", "  ")
	case "toml":
		data, err = toml.Marshal(s)
	case "yaml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads variables from .env files into the process environment.
// Files that do not exist are ignored; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from COVERART_* environment variables.
func (s *Settings) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvOutput); ok && v != "" {
		s.OutputRoot = v
	}
	if v, ok := os.LookupEnv(EnvCacheDir); ok {
		s.CacheDir = v
	}
	if v, ok := os.LookupEnv(EnvUserAgent); ok && v != "" {
		s.UserAgent = v
	}
	if v, ok := os.LookupEnv(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		s.MaxConcurrentDownloads = n
	}
	if v, ok := os.LookupEnv(EnvNoFilter); ok && v != "" {
		noFilter, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNoFilter, err)
		}
		s.FilterByArtist = !noFilter
	}
	return nil
}

// Validate reports the first invalid option.
func (s *Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.OutputRoot) == "":
		return errors.New("output root must not be empty")
	case s.CoverFileName == "" || strings.ContainsAny(s.CoverFileName, `/\`):
		return fmt.Errorf("invalid cover file name %q", s.CoverFileName)
	case s.MaxConcurrentDownloads < 1:
		return fmt.Errorf("max concurrent downloads must be at least 1, got %d", s.MaxConcurrentDownloads)
	case s.RequestTimeout < 0:
		return fmt.Errorf("request timeout must not be negative, got %d", s.RequestTimeout)
	case s.CoverMaxSize < 0:
		return fmt.Errorf("cover max size must not be negative, got %d", s.CoverMaxSize)
	}
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
