package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/cover-art-downloader/internal/audio"
	"github.com/handiism/cover-art-downloader/internal/config"
	"github.com/handiism/cover-art-downloader/internal/http"
	ioutils "github.com/handiism/cover-art-downloader/internal/io"
	"github.com/handiism/cover-art-downloader/internal/itunes"
	"github.com/handiism/cover-art-downloader/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result describes one saved cover.
type Result struct {
	// Index is the 1-based position among the downloadable albums.
	Index  int
	Artist string
	Album  string
	Path   string
	Bytes  int
	// Tagged is the number of MP3 files the cover was embedded into.
	Tagged int
}

// Manager coordinates the cover downloads for one artist.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	catalog      *itunes.Catalog
	tagger       *audio.Tagger
	imageService *ioutils.ImageService

	artist          string
	albums          []model.AlbumRecord
	results         []Result
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(http.Options{
		UserAgent: settings.UserAgent,
		Timeout:   time.Duration(settings.RequestTimeout) * time.Second,
		CacheDir:  settings.CacheDir,
	})

	return &Manager{
		settings:     settings,
		httpClient:   httpClient,
		catalog:      itunes.NewCatalog(httpClient, settings.SearchEndpoint, settings.LookupEndpoint),
		tagger:       audio.NewTagger(),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize resolves the artist, lists its albums, drops albums credited to
// other artists (when enabled) and derives the full-resolution artwork URLs.
func (m *Manager) Initialize(ctx context.Context, artist string) error {
	artist = strings.TrimSpace(artist)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Searching catalog for %q", artist), Level: LevelVerbose})
	artistID, err := m.catalog.ResolveArtist(ctx, artist)
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolved %q to artist ID %d", artist, artistID), Level: LevelVerbose})

	records, err := m.catalog.ListAlbums(ctx, artistID)
	if err != nil {
		return err
	}

	if m.settings.FilterByArtist {
		kept := model.FilterByArtist(records, artist)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Kept %d of %d results credited to %s", len(kept), len(records), artist), Level: LevelVerbose})
		records = kept
	}

	albums := make([]model.AlbumRecord, 0, len(records))
	var downloadable int32
	for _, rec := range records {
		rec = rec.WithArtwork(m.artworkBase())
		if rec.Downloadable() {
			downloadable++
		}
		albums = append(albums, rec)
	}

	m.mu.Lock()
	m.artist = artist
	m.albums = albums
	m.results = nil
	m.totalFiles = downloadable
	m.mu.Unlock()
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt64(&m.receivedBytes, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d album(s) with artwork for %s", downloadable, artist), Level: LevelInfo})
	return nil
}

// StartDownloads downloads the cover of every downloadable album.
//
// Albums are processed in list order, MaxConcurrentDownloads at a time.
// The first failure cancels the remaining downloads and is returned.
func (m *Manager) StartDownloads(ctx context.Context) error {
	albums := m.Downloadable()
	total := len(albums)

	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, album := range albums {
		g.Go(func() error {
			return m.downloadCover(ctx, i+1, total, album)
		})
	}

	return g.Wait()
}

// Albums returns the processed lookup results, including records that will
// not be downloaded. The result is never nil.
func (m *Manager) Albums() []model.AlbumRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AlbumRecord, len(m.albums))
	copy(out, m.albums)
	return out
}

// Downloadable returns the albums whose cover will be downloaded.
func (m *Manager) Downloadable() []model.AlbumRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.AlbumRecord
	for _, rec := range m.albums {
		if rec.Downloadable() {
			out = append(out, rec)
		}
	}
	return out
}

// Results returns the saved covers ordered by index.
func (m *Manager) Results() []Result {
	m.mu.Lock()
	out := append([]Result(nil), m.results...)
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	m.mu.Lock()
	total := m.totalFiles
	m.mu.Unlock()
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt32(&m.downloadedFiles), total
}

// GetAlbumNames returns "Artist - Album" for every downloadable album.
func (m *Manager) GetAlbumNames() []string {
	albums := m.Downloadable()
	names := make([]string, len(albums))
	for i, album := range albums {
		names[i] = fmt.Sprintf("%s - %s", album.ArtistName, album.CollectionName)
	}
	return names
}

// CoverPath returns where the cover of rec is saved.
func (m *Manager) CoverPath(rec model.AlbumRecord) string {
	dir := ioutils.AlbumDir(m.settings.OutputRoot, rec.ArtistName, rec.CollectionName)
	return filepath.Join(dir, m.settings.CoverFileName)
}

func (m *Manager) downloadCover(ctx context.Context, index, total int, album model.AlbumRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	coverPath := m.CoverPath(album)
	dir := filepath.Dir(coverPath)
	if err := ioutils.EnsureDir(dir); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("[%d/%d] Downloading cover for %s - %s", index, total, album.ArtistName, album.CollectionName),
		Level:   LevelInfo,
	})

	var last int64
	artwork, err := m.httpClient.DownloadBytes(ctx, album.ArtworkURL, func(written, _ int64) {
		atomic.AddInt64(&m.receivedBytes, written-last)
		last = written
	})
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for %s: %v", album.CollectionName, err), Level: LevelError})
		return fmt.Errorf("download cover for %s - %s: %w", album.ArtistName, album.CollectionName, err)
	}

	artwork, err = m.imageService.Prepare(ctx, artwork, m.settings.ConvertCoverToJPG, m.settings.CoverMaxSize)
	if err != nil {
		return fmt.Errorf("process cover for %s - %s: %w", album.ArtistName, album.CollectionName, err)
	}

	if err := ioutils.WriteFile(ctx, coverPath, artwork); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork: %v", err), Level: LevelError})
		return err
	}
	atomic.AddInt32(&m.downloadedFiles, 1)

	tagged := 0
	if m.settings.EmbedInTags {
		tagged, err = m.tagger.EmbedCover(dir, artwork)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging files in %s: %v", dir, err), Level: LevelWarning})
		} else if tagged > 0 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Embedded cover into %d file(s) in %s", tagged, dir), Level: LevelVerbose})
		}
	}

	m.mu.Lock()
	m.results = append(m.results, Result{
		Index:  index,
		Artist: album.ArtistName,
		Album:  album.CollectionName,
		Path:   coverPath,
		Bytes:  len(artwork),
		Tagged: tagged,
	})
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] Saved: %s", index, total, coverPath), Level: LevelSuccess})
	return nil
}

func (m *Manager) artworkBase() string {
	if m.settings.ArtworkBase == "" {
		return model.DefaultArtworkBase
	}
	return m.settings.ArtworkBase
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
