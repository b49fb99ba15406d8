package quality_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/quality"
	"github.com/andreyxaxa/Photo-QC/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spikes draws isolated single-pixel peaks on a black 20x20 image. Each peak of
// height v contributes -4v once and v four times to the Laplacian response and
// nothing to its mean, so the variance is 20 * sum(v^2) / 400.
func spikes(values ...uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	pos := []image.Point{{3, 3}, {7, 3}, {11, 3}, {15, 3}, {3, 7}, {7, 7}, {11, 7}, {15, 7}}
	for i, v := range values {
		img.SetGray(pos[i].X, pos[i].Y, color.Gray{Y: v})
	}

	return img
}

func TestBlur_ThresholdBoundary(t *testing.T) {
	a := quality.New()

	atThreshold := a.Blur(spikes(10, 10, 10, 10, 10, 10))
	assert.InDelta(t, 30.0, atThreshold.Score, 1e-9)
	assert.False(t, atThreshold.IsBlurry)
	assert.False(t, atThreshold.Fallback)
	assert.Empty(t, atThreshold.Error)

	below := a.Blur(spikes(10, 10, 10, 10, 10, 9))
	assert.InDelta(t, 29.05, below.Score, 1e-9)
	assert.True(t, below.IsBlurry)
}

func TestBlur_UniformImageIsBlurry(t *testing.T) {
	res := quality.New().Blur(testutil.Uniform(50, 50, 128))

	assert.Zero(t, res.Score)
	assert.True(t, res.IsBlurry)
	assert.Equal(t, 30.0, res.Threshold)
}

func TestBlur_SharpStripes(t *testing.T) {
	res := quality.New().Blur(testutil.Stripes(64, 64, 8, 100, 156))

	assert.Greater(t, res.Score, 30.0)
	assert.False(t, res.IsBlurry)
}

func TestBlur_TinyImageUsesFallback(t *testing.T) {
	res := quality.New().Blur(testutil.Uniform(2, 2, 128))

	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, res.Score)
	assert.True(t, res.IsBlurry)
}

func TestBlur_SubImage(t *testing.T) {
	full := spikes(10, 10, 10, 10, 10, 10)
	padded := image.NewGray(image.Rect(0, 0, 30, 30))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			padded.SetGray(x+5, y+5, full.GrayAt(x, y))
		}
	}

	sub := padded.SubImage(image.Rect(5, 5, 25, 25)).(*image.Gray)

	assert.InDelta(t, 30.0, quality.New().Blur(sub).Score, 1e-9)
}

func TestBrightness_Boundaries(t *testing.T) {
	a := quality.New()

	row := func(base uint8, last uint8) *image.Gray {
		img := testutil.Uniform(10, 1, base)
		img.Pix[9] = last
		return img
	}

	dark := a.Brightness(row(40, 39))
	assert.InDelta(t, 39.9, dark.Score, 1e-9)
	assert.True(t, dark.IsTooDark)
	assert.False(t, dark.IsTooBright)

	bright := a.Brightness(row(220, 221))
	assert.InDelta(t, 220.1, bright.Score, 1e-9)
	assert.True(t, bright.IsTooBright)
	assert.False(t, bright.IsTooDark)

	for _, v := range []uint8{40, 128, 220} {
		res := a.Brightness(testutil.Uniform(4, 4, v))
		assert.Equal(t, float64(v), res.Score)
		assert.False(t, res.IsTooDark, "level %d", v)
		assert.False(t, res.IsTooBright, "level %d", v)
	}
}

func TestGlare(t *testing.T) {
	a := quality.New()

	tests := []struct {
		name     string
		share    float64
		expected float64
		hasGlare bool
	}{
		{"none", 0, 0, false},
		{"half", 0.5, 50, false},
		{"at threshold", 0.7, 70, false},
		{"three quarters", 0.75, 75, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Glare(testutil.GlarePatch(200, 200, tt.share))

			assert.InDelta(t, tt.expected, res.Percentage, 1e-9)
			assert.Equal(t, tt.hasGlare, res.HasGlare)
			assert.Equal(t, 70.0, res.Threshold)
		})
	}
}

func TestAnalyze(t *testing.T) {
	report := quality.New().Analyze(testutil.Stripes(120, 80, 10, 100, 156))

	assert.False(t, report.Undecodable)
	assert.False(t, report.Blur.IsBlurry)
	assert.InDelta(t, 128, report.Brightness.Score, 1)
	assert.Zero(t, report.Glare.Percentage)
}

func TestAnalyze_NilImage(t *testing.T) {
	report := quality.New().Analyze(nil)

	assert.True(t, report.Undecodable)
	assert.NotEmpty(t, report.Blur.Error)
	assert.False(t, report.Blur.IsBlurry)
}

func TestUndecodableReport(t *testing.T) {
	report := quality.New().UndecodableReport(errors.New("unknown format"))

	require.True(t, report.Undecodable)
	assert.Equal(t, "unknown format", report.Glare.Error)
	assert.False(t, report.Brightness.IsTooDark)
}

func TestWithThresholds(t *testing.T) {
	th := quality.DefaultThresholds()
	th.Blur = 50
	th.BrightnessMin = 0
	a := quality.New(quality.WithThresholds(th))

	assert.Equal(t, th, a.Thresholds())

	black := a.Brightness(testutil.Uniform(4, 4, 0))
	assert.False(t, black.IsTooDark)
	assert.Zero(t, black.Min)
}

func TestPartialThresholdOptions(t *testing.T) {
	a := quality.New(quality.WithBlurThreshold(50), quality.WithGlareThreshold(40))

	th := a.Thresholds()
	assert.Equal(t, 50.0, th.Blur)
	assert.Equal(t, 40.0, th.Glare)
	assert.Equal(t, 40.0, th.BrightnessMin)
	assert.Equal(t, 220.0, th.BrightnessMax)

	assert.True(t, a.Glare(testutil.GlarePatch(200, 200, 0.5)).HasGlare)

	lenient := quality.New(quality.WithBrightnessRange(0, 255))
	assert.False(t, lenient.Brightness(testutil.Uniform(4, 4, 0)).IsTooDark)
	assert.False(t, lenient.Brightness(testutil.Uniform(4, 4, 255)).IsTooBright)
}
