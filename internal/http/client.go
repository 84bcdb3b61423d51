package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "CoverArtDownloader"

// maxPreallocate caps the buffer reserved up front from Content-Length.
const maxPreallocate = 32 << 20

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Status)
}

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each request including reading the body. Zero disables it.
	Timeout time.Duration

	// CacheDir enables an on-disk HTTP cache when non-empty. Responses are
	// reused according to their caching headers.
	CacheDir string
}

// Client wraps HTTP operations for the catalog and artwork hosts.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Optional on-disk response cache
//   - In-memory downloads with progress tracking
//
// Example usage:
//
//	client := NewClient(Options{Timeout: time.Minute})
//
//	// Fetch a catalog response
//	body, err := client.Get(ctx, "https://itunes.apple.com/lookup?id=5468295&entity=album")
//
//	// Download artwork with progress
//	data, err := client.DownloadBytes(ctx, artworkURL, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client from opts.
func NewClient(opts Options) *Client {
	httpClient := &http.Client{}
	if opts.CacheDir != "" {
		httpClient = httpcache.NewTransport(diskcache.New(opts.CacheDir)).Client()
	}
	httpClient.Timeout = opts.Timeout

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header), -1 if unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.DownloadBytes(ctx, url, nil)
}

// DownloadBytes downloads a resource into memory.
//
// onProgress, when not nil, is called with (bytesRead, contentLength) as
// the body is read. contentLength is -1 when the server does not send it.
func (c *Client) DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(min(resp.ContentLength, maxPreallocate)))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return buf.Bytes(), nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}
