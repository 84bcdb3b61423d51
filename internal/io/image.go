package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageService prepares downloaded cover art before it is written to disk.
//
// Catalog originals are not always JPEG even though they are saved as
// cover.jpg, and they can be several thousand pixels wide. ImageService can
// re-encode them as JPEG and shrink them to a maximum size.
//
// Example usage:
//
//	svc := NewImageService()
//	cover, err := svc.Prepare(ctx, data, true, 1400)
type ImageService struct {
	// Quality is the JPEG encoding quality.
	Quality int
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{Quality: 90}
}

// Prepare applies the configured transforms to raw artwork bytes.
//
// With toJPEG false and maxSize 0 the data is returned untouched.
// A maxSize greater than zero resizes the image to fit within
// maxSize x maxSize, which always produces JPEG output.
func (s *ImageService) Prepare(ctx context.Context, data []byte, toJPEG bool, maxSize int) ([]byte, error) {
	switch {
	case maxSize > 0:
		return s.ResizeImage(ctx, data, maxSize, maxSize)
	case toJPEG:
		return s.ConvertToJPEG(ctx, data)
	default:
		return data, nil
	}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already smaller than the maximum
// keep their size but are still re-encoded as JPEG.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 3000x3000 original becomes 1000x1000
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return s.encode(dst)
}

// ConvertToJPEG converts an image to JPEG format.
//
// Input that is already JPEG is re-encoded as well, so the output quality
// is always the configured one.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.encode(img)
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
