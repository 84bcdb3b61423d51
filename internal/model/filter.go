package model

import (
	"golang.org/x/text/cases"
)

// MatchesArtist reports whether the record is credited to the queried artist.
//
// Both names are case folded before comparison. A record without an artist
// name never matches.
func (r AlbumRecord) MatchesArtist(query string) bool {
	if r.ArtistName == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(r.ArtistName) == fold.String(query)
}

// FilterByArtist returns the records credited to the queried artist, in order.
func FilterByArtist(records []AlbumRecord, query string) []AlbumRecord {
	kept := make([]AlbumRecord, 0, len(records))
	for _, rec := range records {
		if rec.MatchesArtist(query) {
			kept = append(kept, rec)
		}
	}
	return kept
}
