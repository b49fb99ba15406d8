package quality

import (
	"fmt"
	"image"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
)

const (
	glareSampleSize = 200
	glareLuminance  = 240
)

// Glare is the share of overexposed pixels, in percent, measured on a 200x200 copy.
func (a *Analyzer) Glare(g *image.Gray) (res entity.GlareResult) {
	res.Threshold = a.thresholds.Glare

	defer func() {
		if r := recover(); r != nil {
			res = entity.GlareResult{Threshold: res.Threshold, Error: fmt.Sprintf("glare: %v", r)}
		}
	}()

	if len(g.Pix) == 0 {
		res.Error = "glare: empty image"
		return res
	}

	small := processor.ResizeGray(g, glareSampleSize, glareSampleSize)

	bright := 0
	for _, p := range small.Pix {
		if p > glareLuminance {
			bright++
		}
	}

	pct := 100 * float64(bright) / float64(len(small.Pix))

	res.Percentage = pct
	res.HasGlare = pct > a.thresholds.Glare

	return res
}
