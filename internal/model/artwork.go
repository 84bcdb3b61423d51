package model

import (
	"maps"
	"strings"
)

const (
	// DefaultArtworkBase is prepended to the upgraded artwork path.
	DefaultArtworkBase = "https://a1.mzstatic.com/us/r1000/0/"

	thumbMarker = "/image/thumb/"
)

// UpgradeArtworkURL derives the full-resolution artwork URL from a catalog
// thumbnail URL.
//
// Thumbnail URLs look like
//
//	https://is1-ssl.mzstatic.com/image/thumb/Music/v4/aa/bb/cc/source.jpg/100x100bb.jpg
//
// The path after /image/thumb/ minus its last segment (the size suffix)
// addresses the original image on the artwork host:
//
//	https://a1.mzstatic.com/us/r1000/0/Music/v4/aa/bb/cc/source.jpg
//
// ok is false when the marker is missing or fewer than two segments follow it.
func UpgradeArtworkURL(thumb, base string) (upgraded string, ok bool) {
	_, path, found := strings.Cut(thumb, thumbMarker)
	if !found {
		return "", false
	}

	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return "", false
	}

	return base + strings.Join(segments[:len(segments)-1], "/"), true
}

// WithArtwork returns a copy of r with ArtworkURL derived from ArtworkURL100.
// The copy is returned unchanged when no URL can be derived. r itself is not
// modified.
func (r AlbumRecord) WithArtwork(base string) AlbumRecord {
	out := r
	out.Fields = maps.Clone(r.Fields)
	out.ArtworkURL = ""
	if upgraded, ok := UpgradeArtworkURL(r.ArtworkURL100, base); ok {
		out.ArtworkURL = upgraded
	}
	return out
}
