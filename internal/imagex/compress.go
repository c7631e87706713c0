// Package imagex provides a stateless image compression transform used to
// bound the size of stored uploads.
package imagex

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
)

// Options configures Compress. Zero values fall back to the defaults.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

const (
	defaultMaxWidth  = 1920
	defaultMaxHeight = 1080
	defaultQuality   = 80
)

// Compress decodes a JPEG or PNG image, downscales it to fit within the
// configured bounds, and re-encodes it as JPEG. The input is never mutated.
func Compress(data []byte, opts Options) ([]byte, error) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = defaultMaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = defaultMaxHeight
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = defaultQuality
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		img = scale(img, opts.MaxWidth, opts.MaxHeight)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// scale returns a nearest-neighbor downscale of img preserving aspect ratio.
func scale(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	ratio := min(float64(maxWidth)/float64(srcW), float64(maxHeight)/float64(srcH))
	dstW := int(float64(srcW) * ratio)
	dstH := int(float64(srcH) * ratio)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		srcY := bounds.Min.Y + y*srcH/dstH
		for x := 0; x < dstW; x++ {
			srcX := bounds.Min.X + x*srcW/dstW
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}
