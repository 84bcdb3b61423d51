// Package download provides the orchestration logic for fetching the album
// covers of one artist.
//
// # Manager
//
// The Manager coordinates the entire process:
//
//  1. Resolve the artist name to a catalog ID
//  2. List the artist's albums
//  3. Drop albums credited to other artists (optional, on by default)
//  4. Derive full-resolution artwork URLs from the thumbnails
//  5. Download each cover to <root>/<artist>/<album>/cover.jpg
//  6. Embed the cover into MP3 files found next to it (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, "Daft Punk"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// By default covers are downloaded one after another. With
// settings.MaxConcurrentDownloads above one, downloads run in a bounded
// pool; the [i/n] counters still follow list order. The progress callback
// may then be called from several goroutines.
//
// # Failures
//
// There is no retry. The first network or filesystem failure stops the run
// and is returned from StartDownloads.
package download
