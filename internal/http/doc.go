// Package http provides the HTTP client used for catalog and artwork requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Turning non-200 responses into *StatusError values
//   - An optional on-disk response cache
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Timeout: time.Minute})
//
//	// Fetch a catalog response
//	body, err := client.Get(ctx, searchURL)
//
//	// Download artwork with a progress callback
//	data, err := client.DownloadBytes(ctx, artworkURL, func(written, total int64) {
//	    fmt.Printf("%d bytes\n", written)
//	})
//
// # Caching
//
// Setting Options.CacheDir stores responses on disk and reuses them as long
// as their caching headers allow, which avoids repeating catalog lookups
// between runs.
package http
