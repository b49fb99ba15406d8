package processor_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-QC/internal/testutil"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	p := processor.New()

	img, err := p.Decode(testutil.EncodePNG(testutil.Uniform(20, 10, 90)))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := processor.New().Decode([]byte("not an image"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUndecodableImage)
}

func TestOptimize_FitsIntoBox(t *testing.T) {
	p := processor.New(processor.MaxSize(100, 100), processor.JPEGQuality(70))

	out, err := p.Optimize(testutil.Uniform(400, 200, 128))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestOptimize_SmallImageKeepsSize(t *testing.T) {
	out, err := processor.New().Optimize(testutil.Uniform(64, 48, 128))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestGrayscale(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(5, 5, 7, 6))
	rgba.Set(5, 5, color.RGBA{R: 255, A: 255})
	rgba.Set(6, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := processor.Grayscale(rgba)

	assert.Equal(t, image.Rect(0, 0, 2, 1), g.Bounds())
	assert.Equal(t, color.GrayModel.Convert(color.RGBA{R: 255, A: 255}).(color.Gray).Y, g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), g.GrayAt(1, 0).Y)
}

func TestResizeGray(t *testing.T) {
	g := processor.ResizeGray(testutil.Uniform(37, 11, 200), 200, 200)

	assert.Equal(t, image.Rect(0, 0, 200, 200), g.Bounds())
	assert.Equal(t, uint8(200), g.GrayAt(100, 100).Y)
}
