package main

import (
	"fmt"
	"os"

	"github.com/handiism/cover-art-downloader/internal/config"
	"github.com/handiism/cover-art-downloader/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads settings from the optional file named by the first argument and
// from COVERART_* variables, then starts the interface.
func run() error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	settings := config.DefaultSettings()
	if len(os.Args) > 1 {
		var err error
		settings, err = config.Load(os.Args[1])
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	return tui.Run(settings)
}
