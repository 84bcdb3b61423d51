package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/handiism/cover-art-downloader/internal/config"
	"github.com/handiism/cover-art-downloader/internal/download"
	"github.com/handiism/cover-art-downloader/internal/itunes"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	output      string
	configPath  string
	envFile     string
	noFilter    bool
	concurrency int
	jpeg        bool
	maxSize     int
	embed       bool
	cacheDir    string
	noJSON      bool
	dryRun      bool
	verbose     bool
}

func newRootCommand() *cobra.Command {
	var opts options
	defaults := config.DefaultSettings()

	rootCmd := &cobra.Command{
		Use:   "cover-art [artist name]",
		Short: "Download album cover art for a given artist",
		Long: "Looks the artist up in the iTunes catalog and saves the full-resolution cover of\n" +
			"every album to <output>/<artist>/<album>/cover.jpg.\n\n" +
			"Without an artist name the name is read from standard input.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(&opts, cmd.Flags())
			if err != nil {
				return err
			}

			artist := strings.TrimSpace(strings.Join(args, " "))
			if artist == "" {
				artist, err = promptArtist(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			if artist == "" {
				return itunes.ErrEmptyArtist
			}

			return run(cmd, settings, artist, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", defaults.OutputRoot, "Output directory for artist folders")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Settings file (.json, .toml, .yaml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file with COVERART_* variables")
	flags.BoolVar(&opts.noFilter, "no-filter", false, "Keep albums credited to other artists")
	flags.IntVarP(&opts.concurrency, "concurrency", "j", defaults.MaxConcurrentDownloads, "Number of covers downloaded at once")
	flags.BoolVar(&opts.jpeg, "jpeg", false, "Re-encode covers as JPEG")
	flags.IntVar(&opts.maxSize, "max-size", 0, "Shrink covers to fit within this many pixels (0 keeps the original)")
	flags.BoolVar(&opts.embed, "embed", false, "Embed covers into MP3 files already in the album folder")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "Cache HTTP responses in this directory")
	flags.BoolVar(&opts.noJSON, "no-json", false, "Do not print the album list as JSON")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "List albums without downloading")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")

	return rootCmd
}

// loadSettings applies, in order, the defaults, the settings file, the
// environment and the flags the user set explicitly.
func loadSettings(opts *options, flags *pflag.FlagSet) (*config.Settings, error) {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return nil, err
	}

	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}

	if flags.Changed("output") {
		settings.OutputRoot = opts.output
	}
	if flags.Changed("concurrency") {
		settings.MaxConcurrentDownloads = opts.concurrency
	}
	if flags.Changed("max-size") {
		settings.CoverMaxSize = opts.maxSize
	}
	if flags.Changed("cache-dir") {
		settings.CacheDir = opts.cacheDir
	}
	if opts.noFilter {
		settings.FilterByArtist = false
	}
	if opts.jpeg {
		settings.ConvertCoverToJPG = true
	}
	if opts.embed {
		settings.EmbedInTags = true
	}
	if opts.noJSON {
		settings.PrintJSON = false
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func run(cmd *cobra.Command, settings *config.Settings, artist string, opts options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	manager := download.NewManager(settings, progressPrinter(out, opts.verbose))

	if err := manager.Initialize(ctx, artist); err != nil {
		return err
	}

	if settings.PrintJSON {
		if err := printAlbums(out, manager); err != nil {
			return err
		}
	}

	if opts.dryRun {
		fmt.Fprintln(out, "\n[Dry run - not downloading]")
		return nil
	}

	if err := manager.StartDownloads(ctx); err != nil {
		return err
	}

	printSummary(out, manager)
	return nil
}

func printAlbums(out io.Writer, manager *download.Manager) error {
	data, err := json.MarshalIndent(manager.Albums(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// progressPrinter prints manager events with a level prefix. Verbose events
// are dropped unless verbose is set.
func progressPrinter(out io.Writer, verbose bool) func(download.ProgressEvent) {
	var mu sync.Mutex
	return func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, prefix+event.Message)
	}
}
