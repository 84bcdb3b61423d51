package model

import (
	"encoding/json"
	"maps"
)

// Catalog field names read or written by the pipeline.
const (
	FieldArtistName     = "artistName"
	FieldCollectionName = "collectionName"
	FieldArtworkURL100  = "artworkUrl100"
	FieldArtworkURL     = "artworkUrl"
)

// AlbumRecord is one entry of a catalog lookup response.
//
// The three fields the pipeline depends on are extracted and type-checked
// once, when the record is decoded. A field that is missing, null or not a
// string decodes to the empty string, which every consumer treats as absent.
//
// Every other field of the response is kept verbatim in Fields so that the
// record can be printed back unchanged. ArtworkURL is never read from the
// catalog; it is only ever set by WithArtwork.
//
// Example:
//
//	var rec AlbumRecord
//	_ = json.Unmarshal(raw, &rec)
//	rec = rec.WithArtwork(DefaultArtworkBase)
//	if rec.Downloadable() {
//	    fmt.Println(rec.ArtworkURL)
//	}
type AlbumRecord struct {
	// ArtistName is the artist credited for this album by the catalog.
	ArtistName string

	// CollectionName is the album title. Empty for non-album results such
	// as the artist record the lookup endpoint includes.
	CollectionName string

	// ArtworkURL100 is the thumbnail artwork URL.
	ArtworkURL100 string

	// ArtworkURL is the derived full-resolution artwork URL.
	ArtworkURL string

	// Fields holds the raw catalog fields, keyed by name.
	Fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a catalog result object.
func (r *AlbumRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	delete(fields, FieldArtworkURL)

	*r = AlbumRecord{
		ArtistName:     stringField(fields, FieldArtistName),
		CollectionName: stringField(fields, FieldCollectionName),
		ArtworkURL100:  stringField(fields, FieldArtworkURL100),
		Fields:         fields,
	}
	return nil
}

// MarshalJSON encodes the record with all pass-through fields and, when
// derived, the artworkUrl field.
func (r AlbumRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Fields)+1)
	maps.Copy(out, r.Fields)
	if r.ArtworkURL != "" {
		raw, err := json.Marshal(r.ArtworkURL)
		if err != nil {
			return nil, err
		}
		out[FieldArtworkURL] = raw
	}
	return json.Marshal(out)
}

// IsAlbum reports whether the record describes an album.
func (r AlbumRecord) IsAlbum() bool {
	return r.CollectionName != ""
}

// Downloadable reports whether the record carries everything needed to
// download its cover: artist, album and derived artwork URL.
func (r AlbumRecord) Downloadable() bool {
	return r.ArtistName != "" && r.CollectionName != "" && r.ArtworkURL != ""
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
