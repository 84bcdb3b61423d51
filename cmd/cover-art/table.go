package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/handiism/cover-art-downloader/internal/download"
	"github.com/jedib0t/go-pretty/v6/table"
)

func printSummary(out io.Writer, manager *download.Manager) {
	results := manager.Results()
	if len(results) == 0 {
		fmt.Fprintln(out, "No covers downloaded.")
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderResults(results))

	received, files, total := manager.GetProgress()
	fmt.Fprintf(out, "Downloaded %d of %d cover(s), %s\n", files, total, formatBytes(received))
}

func renderResults(results []download.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Artist", "Album", "Size", "Saved to"})
	for _, r := range results {
		t.AppendRow(table.Row{strconv.Itoa(r.Index), r.Artist, r.Album, formatBytes(int64(r.Bytes)), r.Path})
	}
	return t.Render()
}

func formatBytes(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
	case bytes >= 1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
