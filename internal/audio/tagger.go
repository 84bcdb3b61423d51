package audio

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// Tagger embeds cover art into MP3 files that already sit in an album
// directory.
//
// Tagger uses the id3v2 library to replace the front cover (APIC frame) of
// every .mp3 file directly inside the directory. Other frames are left
// untouched. Subdirectories are not visited.
//
// Example:
//
//	tagger := NewTagger()
//
//	// After saving Artists/Daft Punk/Discovery/cover.jpg
//	n, err := tagger.EmbedCover("Artists/Daft Punk/Discovery", coverBytes)
//	fmt.Printf("tagged %d files\n", n)
type Tagger struct {
	// Description is written to the picture frame.
	Description string
}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{Description: "Cover"}
}

// EmbedCover writes artwork as the front cover of every MP3 in dir and
// returns the number of files tagged. A directory without MP3 files is not
// an error.
func (t *Tagger) EmbedCover(dir string, artwork []byte) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	tagged := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := t.SaveCover(path, artwork); err != nil {
			return tagged, fmt.Errorf("tag %s: %w", path, err)
		}
		tagged++
	}
	return tagged, nil
}

// SaveCover replaces the front cover of a single MP3 file.
func (t *Tagger) SaveCover(path string, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	t.updateArtwork(tag, artwork)

	return tag.Save()
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    http.DetectContentType(artwork),
		PictureType: id3v2.PTFrontCover,
		Description: t.Description,
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
