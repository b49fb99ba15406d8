package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/disintegration/imaging"

	// webp uploads from mobile browsers; jpeg, png, gif, bmp and tiff come with imaging
	_ "golang.org/x/image/webp"
)

const (
	_defaultMaxWidth    = 1600
	_defaultMaxHeight   = 1600
	_defaultJPEGQuality = 80
)

type ImageProcessor struct {
	maxWidth    int
	maxHeight   int
	jpegQuality int
}

func New(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		maxWidth:    _defaultMaxWidth,
		maxHeight:   _defaultMaxHeight,
		jpegQuality: _defaultJPEGQuality,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Decode parses the payload once. The EXIF orientation is not applied, so pixel
// checks see the image as stored.
func (p *ImageProcessor) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Decode - imaging.Decode: %w: %w", errs.ErrUndecodableImage, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("ImageProcessor - Decode: %w: empty image", errs.ErrUndecodableImage)
	}

	return img, nil
}

// Optimize fits img into the configured box and recompresses it as JPEG.
// Images already inside the box are only recompressed.
func (p *ImageProcessor) Optimize(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > p.maxWidth || b.Dy() > p.maxHeight {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Optimize - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Grayscale returns the 8-bit luminance channel of img, origin at (0, 0).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)

	return g
}

// ResizeGray scales img to exactly w x h and returns its luminance.
func ResizeGray(img image.Image, w, h int) *image.Gray {
	return Grayscale(imaging.Resize(img, w, h, imaging.Linear))
}
