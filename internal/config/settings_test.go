package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.OutputRoot != "Artists" {
		t.Errorf("OutputRoot = %q, want %q", settings.OutputRoot, "Artists")
	}
	if !settings.FilterByArtist {
		t.Error("FilterByArtist should default to true")
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "settings.json", `{"output_root": "Covers", "max_concurrent_downloads": 4}`},
		{"toml", "settings.toml", "output_root = \"Covers\"\nmax_concurrent_downloads = 4\n"},
		{"yaml", "settings.yaml", "output_root: Covers\nmax_concurrent_downloads: 4\n"},
		{"yml", "settings.yml", "output_root: Covers\nmax_concurrent_downloads: 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			settings, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if settings.OutputRoot != "Covers" {
				t.Errorf("OutputRoot = %q, want %q", settings.OutputRoot, "Covers")
			}
			if settings.MaxConcurrentDownloads != 4 {
				t.Errorf("MaxConcurrentDownloads = %d, want 4", settings.MaxConcurrentDownloads)
			}
			// untouched options keep their defaults
			if settings.CoverFileName != "cover.jpg" {
				t.Errorf("CoverFileName = %q, want default", settings.CoverFileName)
			}
		})
	}
}

func TestLoad_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load() error = %v, want ErrUnknownFormat", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "settings"+ext)

			want := DefaultSettings()
			want.OutputRoot = "Elsewhere"
			want.EmbedInTags = true
			want.CoverMaxSize = 1200
			if err := want.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *got != *want {
				t.Errorf("Load(Save(s)) = %+v, want %+v", got, want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvOutput, "/tmp/covers")
	t.Setenv(EnvConcurrency, "3")
	t.Setenv(EnvNoFilter, "true")
	t.Setenv(EnvUserAgent, "")

	settings := DefaultSettings()
	if err := settings.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if settings.OutputRoot != "/tmp/covers" {
		t.Errorf("OutputRoot = %q", settings.OutputRoot)
	}
	if settings.MaxConcurrentDownloads != 3 {
		t.Errorf("MaxConcurrentDownloads = %d, want 3", settings.MaxConcurrentDownloads)
	}
	if settings.FilterByArtist {
		t.Error("FilterByArtist should be disabled")
	}
	if settings.UserAgent != "CoverArtDownloader" {
		t.Errorf("empty %s should not override, got %q", EnvUserAgent, settings.UserAgent)
	}
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv(EnvConcurrency, "many")
	if err := DefaultSettings().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric concurrency")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(EnvCacheDir+"=/var/cache/covers\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// registers cleanup of the variable godotenv is about to set
	t.Setenv(EnvCacheDir, "")
	os.Unsetenv(EnvCacheDir)

	if err := LoadEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv(EnvCacheDir); got != "/var/cache/covers" {
		t.Errorf("%s = %q, want %q", EnvCacheDir, got, "/var/cache/covers")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"empty output", func(s *Settings) { s.OutputRoot = " " }, true},
		{"cover in subdir", func(s *Settings) { s.CoverFileName = "art/cover.jpg" }, true},
		{"zero concurrency", func(s *Settings) { s.MaxConcurrentDownloads = 0 }, true},
		{"negative timeout", func(s *Settings) { s.RequestTimeout = -1 }, true},
		{"negative size", func(s *Settings) { s.CoverMaxSize = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
