// Package itunes talks to the public iTunes catalog API.
//
// The package handles two requests:
//
//  1. Resolving a free-text artist name to a numeric artist ID
//  2. Listing the albums of that artist
//
// # Resolving an Artist
//
// The search endpoint is queried for musicArtist entities with a limit of
// one, and results[0].artistId of the response is used:
//
//	catalog := itunes.NewCatalog(client, "", "")
//	id, err := catalog.ResolveArtist(ctx, "Daft Punk")
//	if errors.Is(err, itunes.ErrNoArtistFound) {
//	    fmt.Println("no such artist")
//	}
//
// # Listing Albums
//
// The lookup endpoint returns the artist record followed by album records.
// Every result object is decoded into a model.AlbumRecord:
//
//	records, err := catalog.ListAlbums(ctx, id)
//	for _, rec := range records {
//	    if rec.IsAlbum() {
//	        fmt.Println(rec.CollectionName)
//	    }
//	}
package itunes
