// Package model defines the catalog records used throughout the cover art
// downloader.
//
// # AlbumRecord
//
// AlbumRecord is one entry of a catalog lookup result. The fields the
// downloader needs are exposed directly; every field of the original object
// is kept in Fields and written back by MarshalJSON:
//
//	var rec model.AlbumRecord
//	_ = json.Unmarshal(raw, &rec)
//	rec = rec.WithArtwork(model.DefaultArtworkBase)
//	fmt.Println(rec.ArtworkURL)
//
// # Artwork URLs
//
// UpgradeArtworkURL turns a thumbnail URL into the full-resolution source:
//
//	https://is1-ssl.mzstatic.com/image/thumb/Music/v4/ab/source.jpg/100x100bb.jpg
//	https://a1.mzstatic.com/us/r1000/0/Music/v4/ab/source.jpg
//
// # Artist filter
//
// FilterByArtist keeps the records whose artist name equals the query,
// ignoring case.
package model
