package itunes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/cover-art-downloader/internal/model"
	"github.com/tidwall/gjson"
)

const (
	// DefaultSearchEndpoint is the catalog search endpoint.
	DefaultSearchEndpoint = "https://itunes.apple.com/search"

	// DefaultLookupEndpoint is the catalog lookup endpoint.
	DefaultLookupEndpoint = "https://itunes.apple.com/lookup"
)

var (
	// ErrNoArtistFound is returned when a search yields no usable artist ID.
	//
	// This happens when:
	//   - The search returned no results
	//   - The first result has no artistId
	//   - The artistId is not an unsigned integer
	ErrNoArtistFound = errors.New("no artist found")

	// ErrEmptyArtist is returned when ResolveArtist is called without a name.
	ErrEmptyArtist = errors.New("artist name is empty")
)

// Fetcher performs GET requests and returns the response body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Catalog resolves artists and lists their albums through the catalog API.
//
// Example usage:
//
//	catalog := NewCatalog(httpClient, DefaultSearchEndpoint, DefaultLookupEndpoint)
//
//	id, err := catalog.ResolveArtist(ctx, "Daft Punk")
//	if errors.Is(err, ErrNoArtistFound) {
//	    return err
//	}
//
//	records, err := catalog.ListAlbums(ctx, id)
type Catalog struct {
	fetcher        Fetcher
	searchEndpoint string
	lookupEndpoint string
}

// NewCatalog creates a Catalog. Empty endpoints fall back to the defaults.
func NewCatalog(fetcher Fetcher, searchEndpoint, lookupEndpoint string) *Catalog {
	if searchEndpoint == "" {
		searchEndpoint = DefaultSearchEndpoint
	}
	if lookupEndpoint == "" {
		lookupEndpoint = DefaultLookupEndpoint
	}
	return &Catalog{
		fetcher:        fetcher,
		searchEndpoint: searchEndpoint,
		lookupEndpoint: lookupEndpoint,
	}
}

// SearchURL builds the artist search request URL.
//
// The name is percent-encoded with spaces as %20, and the search is limited
// to one artist record.
func (c *Catalog) SearchURL(artist string) string {
	term := strings.ReplaceAll(url.QueryEscape(artist), "+", "%20")
	return fmt.Sprintf("%s?term=%s&entity=musicArtist&limit=1", c.searchEndpoint, term)
}

// LookupURL builds the album lookup request URL for an artist ID.
func (c *Catalog) LookupURL(artistID uint64) string {
	return fmt.Sprintf("%s?id=%d&entity=album", c.lookupEndpoint, artistID)
}

// ResolveArtist returns the catalog ID of the first artist matching name.
//
// Returns ErrNoArtistFound (wrapped) when results[0].artistId is missing or
// is not an unsigned integer. Transport and decode failures are returned
// as is.
func (c *Catalog) ResolveArtist(ctx context.Context, name string) (uint64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyArtist
	}

	body, err := c.fetcher.Get(ctx, c.SearchURL(name))
	if err != nil {
		return 0, fmt.Errorf("search artist %q: %w", name, err)
	}
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("search artist %q: invalid JSON response", name)
	}

	id := gjson.GetBytes(body, "results.0.artistId")
	if id.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %q", ErrNoArtistFound, name)
	}

	// The raw literal must be a plain non-negative integer; 1.0 or 1e3 do not count.
	artistID, err := strconv.ParseUint(id.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q has artistId %s", ErrNoArtistFound, name, id.Raw)
	}
	return artistID, nil
}

// ListAlbums returns the lookup results for an artist ID, in response order.
//
// The catalog includes the artist's own record next to the albums; it is
// returned like any other result. A response without a results array
// yields an empty slice. Results that are not JSON objects are skipped.
func (c *Catalog) ListAlbums(ctx context.Context, artistID uint64) ([]model.AlbumRecord, error) {
	body, err := c.fetcher.Get(ctx, c.LookupURL(artistID))
	if err != nil {
		return nil, fmt.Errorf("lookup albums for %d: %w", artistID, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("lookup albums for %d: invalid JSON response", artistID)
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return []model.AlbumRecord{}, nil
	}

	var (
		records   = make([]model.AlbumRecord, 0, int(results.Get("#").Int()))
		decodeErr error
	)
	results.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		var rec model.AlbumRecord
		if err := rec.UnmarshalJSON([]byte(item.Raw)); err != nil {
			decodeErr = fmt.Errorf("decode lookup result: %w", err)
			return false
		}
		records = append(records, rec)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return records, nil
}
