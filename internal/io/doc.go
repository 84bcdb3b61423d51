// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Turning artist and album names into safe path segments
//   - Directory creation and file writing
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	dir := ioutils.AlbumDir("Artists", "Daft Punk", "Discovery")
//	err := ioutils.EnsureDir(dir)
//	err = ioutils.WriteFile(ctx, filepath.Join(dir, "cover.jpg"), data)
//
// # Filename Sanitization
//
// SanitizeFileName replaces the characters / \ : * ? " < > | with
// underscores and trims surrounding whitespace:
//
//	safe := ioutils.SanitizeFileName("A/B") // Returns "A_B"
//
// # Image Processing
//
// The ImageService handles optional cover art conversion:
//
//	svc := ioutils.NewImageService()
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
//	small, _ := svc.ResizeImage(ctx, data, 1000, 1000)
package ioutils
