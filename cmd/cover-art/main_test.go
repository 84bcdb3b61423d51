package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/cover-art-downloader/internal/config"
	"github.com/handiism/cover-art-downloader/internal/download"
	"github.com/spf13/pflag"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvOutput, config.EnvCacheDir, config.EnvUserAgent, config.EnvConcurrency, config.EnvNoFilter} {
		t.Setenv(key, "")
	}
}

func TestReadArtist(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"line", "Daft Punk\n", "Daft Punk"},
		{"padded", "   Daft Punk  \r\n", "Daft Punk"},
		{"no newline", "Björk", "Björk"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readArtist(strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("readArtist: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if out.String() != "Enter artist name: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderResults(t *testing.T) {
	out := renderResults([]download.Result{
		{Index: 1, Artist: "Daft Punk", Album: "Discovery", Path: "Artists/Daft Punk/Discovery/cover.jpg", Bytes: 2048},
	})

	for _, want := range []string{"ARTIST", "Discovery", "2.00 KB", "Artists/Daft Punk/Discovery/cover.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLoadSettings_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "settings.toml")
	cfg := "output_root = \"from-file\"\nmax_concurrent_downloads = 2\nfilter_by_artist = true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConcurrency, "3")

	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env"), "--no-filter"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	opts := optionsFrom(t, cmd.Flags())

	settings, err := loadSettings(opts, cmd.Flags())
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}

	if settings.OutputRoot != "from-file" {
		t.Errorf("OutputRoot = %q, want value from file", settings.OutputRoot)
	}
	if settings.MaxConcurrentDownloads != 3 {
		t.Errorf("MaxConcurrentDownloads = %d, want value from env", settings.MaxConcurrentDownloads)
	}
	if settings.FilterByArtist {
		t.Error("FilterByArtist should be disabled by --no-filter")
	}

	if err := cmd.ParseFlags([]string{"-o", "from-flag", "-j", "5"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	opts = optionsFrom(t, cmd.Flags())
	settings, err = loadSettings(opts, cmd.Flags())
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if settings.OutputRoot != "from-flag" || settings.MaxConcurrentDownloads != 5 {
		t.Errorf("flags should win, got output %q concurrency %d", settings.OutputRoot, settings.MaxConcurrentDownloads)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	clearEnv(t)

	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"-j", "0", "--env-file", filepath.Join(t.TempDir(), "missing.env")}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if _, err := loadSettings(optionsFrom(t, cmd.Flags()), cmd.Flags()); err == nil {
		t.Fatal("expected validation error for zero concurrency")
	}
}

// optionsFrom rebuilds options from parsed flag values.
func optionsFrom(t *testing.T, flags *pflag.FlagSet) *options {
	t.Helper()
	str := func(name string) string { return flags.Lookup(name).Value.String() }
	boolean := func(name string) bool { return str(name) == "true" }
	integer := func(name string) int {
		var n int
		if _, err := fmt.Sscan(str(name), &n); err != nil {
			t.Fatalf("flag %s: %v", name, err)
		}
		return n
	}

	return &options{
		output:      str("output"),
		configPath:  str("config"),
		envFile:     str("env-file"),
		noFilter:    boolean("no-filter"),
		concurrency: integer("concurrency"),
		jpeg:        boolean("jpeg"),
		maxSize:     integer("max-size"),
		embed:       boolean("embed"),
		cacheDir:    str("cache-dir"),
		noJSON:      boolean("no-json"),
		dryRun:      boolean("dry-run"),
		verbose:     boolean("verbose"),
	}
}

func newFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":1,"results":[{"artistName":"Daft Punk","artistId":5468295}]}`)
	})
	mux.HandleFunc("/lookup", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":3,"results":[
			{"wrapperType":"artist","artistName":"Daft Punk","artistId":5468295},
			{"wrapperType":"collection","artistName":"Daft Punk","collectionName":"Discovery",
			 "artworkUrl100":"https://is1-ssl.mzstatic.com/image/thumb/Music/d1/source.jpg/100x100bb.jpg"},
			{"wrapperType":"collection","artistName":"Various Artists","collectionName":"Tribute",
			 "artworkUrl100":"https://is1-ssl.mzstatic.com/image/thumb/Music/t1/source.jpg/100x100bb.jpg"}
		]}`)
	})
	mux.HandleFunc("/art/Music/d1/source.jpg", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "discovery-cover")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTestConfig(t *testing.T, srv *httptest.Server, root string) string {
	t.Helper()
	s := config.DefaultSettings()
	s.OutputRoot = root
	s.SearchEndpoint = srv.URL + "/search"
	s.LookupEndpoint = srv.URL + "/lookup"
	s.ArtworkBase = srv.URL + "/art/"

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_Download(t *testing.T) {
	clearEnv(t)
	srv := newFakeCatalog(t)
	root := filepath.Join(t.TempDir(), "Artists")
	cfgPath := writeTestConfig(t, srv, root)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "--env-file", filepath.Join(t.TempDir(), "none.env"), "Daft", "Punk"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v\n%s", err, out.String())
	}

	data, err := os.ReadFile(filepath.Join(root, "Daft Punk", "Discovery", "cover.jpg"))
	if err != nil {
		t.Fatalf("cover not written: %v", err)
	}
	if string(data) != "discovery-cover" {
		t.Errorf("cover = %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, "Various Artists")); !os.IsNotExist(err) {
		t.Error("albums by other artists should be filtered out")
	}

	got := out.String()
	for _, want := range []string{`"collectionName": "Discovery"`, `"artworkUrl": "` + srv.URL + `/art/Music/d1/source.jpg"`, "[1/1] Saved:", "Downloaded 1 of 1 cover(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRootCommand_DryRunReadsArtistFromStdin(t *testing.T) {
	clearEnv(t)
	srv := newFakeCatalog(t)
	root := filepath.Join(t.TempDir(), "Artists")
	cfgPath := writeTestConfig(t, srv, root)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Daft Punk\n"))
	cmd.SetArgs([]string{"--config", cfgPath, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--dry-run", "--no-filter"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("dry run should not create the output root")
	}

	start := strings.Index(out.String(), "[")
	if start < 0 {
		t.Fatalf("no JSON in output:\n%s", out.String())
	}
	var albums []map[string]any
	if err := json.NewDecoder(strings.NewReader(out.String()[start:])).Decode(&albums); err != nil {
		t.Fatalf("album JSON: %v\n%s", err, out.String())
	}
	if len(albums) != 3 {
		t.Errorf("got %d records, want 3 with filtering disabled", len(albums))
	}
}

func TestRootCommand_EmptyArtist(t *testing.T) {
	clearEnv(t)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("   \n"))
	cmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for empty artist name")
	}
}

func TestRootCommand_NoMatchingAlbumsPrintsEmptyList(t *testing.T) {
	clearEnv(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":1,"results":[{"artistName":"Daft Punk","artistId":5468295}]}`)
	})
	mux.HandleFunc("/lookup", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":1,"results":[{"wrapperType":"collection","artistName":"Someone Else",
			"collectionName":"Other","artworkUrl100":"https://is1-ssl.mzstatic.com/image/thumb/Music/o1/source.jpg/100x100bb.jpg"}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	root := filepath.Join(t.TempDir(), "Artists")
	cfgPath := writeTestConfig(t, srv, root)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "--env-file", filepath.Join(t.TempDir(), "none.env"), "Daft Punk"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v\n%s", err, out.String())
	}

	lines := strings.Split(out.String(), "\n")
	var emptyList bool
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case "[]":
			emptyList = true
		case "null":
			t.Errorf("album list printed as null:\n%s", out.String())
		}
	}
	if !emptyList {
		t.Errorf("output should contain an empty JSON list:\n%s", out.String())
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("no directories should be created when nothing matches")
	}
}

func TestProgressPrinter_ConcurrentWrites(t *testing.T) {
	var out bytes.Buffer
	printer := progressPrinter(&out, false)

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			printer(download.ProgressEvent{Message: fmt.Sprintf("event %d", i), Level: download.LevelInfo})
			printer(download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d", len(lines), n)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "ℹ️  event ") {
			t.Errorf("malformed line %q", line)
		}
	}
}
