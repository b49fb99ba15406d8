package quality

import (
	"fmt"
	"image"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
)

// Brightness is the mean luminance over every pixel.
func (a *Analyzer) Brightness(g *image.Gray) (res entity.BrightnessResult) {
	res.Min = a.thresholds.BrightnessMin
	res.Max = a.thresholds.BrightnessMax

	defer func() {
		if r := recover(); r != nil {
			res = entity.BrightnessResult{Min: res.Min, Max: res.Max, Error: fmt.Sprintf("brightness: %v", r)}
		}
	}()

	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		res.Error = "brightness: empty image"
		return res
	}

	base := g.PixOffset(b.Min.X, b.Min.Y)

	var sum int64
	for y := 0; y < h; y++ {
		row := g.Pix[base+y*g.Stride : base+y*g.Stride+w]
		for _, p := range row {
			sum += int64(p)
		}
	}

	mean := float64(sum) / float64(w*h)

	res.Score = mean
	res.IsTooDark = mean < a.thresholds.BrightnessMin
	res.IsTooBright = mean > a.thresholds.BrightnessMax

	return res
}
