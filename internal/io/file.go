package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// invalidChars maps every character that is unsafe in a path segment to an
// underscore.
var invalidChars = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName turns an artist or album name into a single path segment.
//
// Each of / \ : * ? " < > | is replaced with an underscore and surrounding
// whitespace is trimmed. Names that would still not form a distinct segment
// (empty, "." or "..") become a single underscore.
//
// SanitizeFileName is idempotent.
//
// Example:
//
//	SanitizeFileName("AC/DC")          // Returns "AC_DC"
//	SanitizeFileName(" What? Live ")   // Returns "What_ Live"
//	SanitizeFileName("..")             // Returns "_"
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(invalidChars.Replace(name))

	switch name {
	case "", ".", "..":
		return "_"
	}
	return name
}

// AlbumDir returns root/<artist>/<album> with both names sanitized.
func AlbumDir(root, artist, album string) string {
	return filepath.Join(root, SanitizeFileName(artist), SanitizeFileName(album))
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("Artists/Daft Punk/Discovery")
//	// Creates Artists, Artists/Daft Punk and Artists/Daft Punk/Discovery if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
