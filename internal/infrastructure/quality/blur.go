package quality

import (
	"fmt"
	"image"
	"math"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
)

const (
	fallbackSize      = 100
	fallbackEdgeDelta = 10
	// fallbackNeutral is reported when even the coarse check cannot run.
	fallbackNeutral = 100
)

// Blur scores sharpness as the variance of the Laplacian response. The response
// map has the image's size; its one-pixel border stays zero and is part of the
// variance. Images too small for the kernel use the coarse edge count instead.
func (a *Analyzer) Blur(g *image.Gray) (res entity.BlurResult) {
	res.Threshold = a.thresholds.Blur

	b := g.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return a.fallbackBlur(g, fmt.Sprintf("image is %dx%d, too small for the laplacian; using fallback", b.Dx(), b.Dy()))
	}

	score, err := safeLaplacianVariance(g)
	if err != nil {
		return a.fallbackBlur(g, err.Error()+"; using fallback")
	}

	res.Score = score
	res.IsBlurry = score < a.thresholds.Blur

	return res
}

func (a *Analyzer) fallbackBlur(g *image.Gray, note string) entity.BlurResult {
	score, err := safeEdgeCount(g)
	if err != nil {
		score = fallbackNeutral
		note = note + "; " + err.Error()
	}

	return entity.BlurResult{
		Score:     score,
		Threshold: a.thresholds.Blur,
		IsBlurry:  score < a.thresholds.Blur,
		Fallback:  true,
		Error:     note,
	}
}

func safeLaplacianVariance(g *image.Gray) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("laplacian: %v", r)
		}
	}()

	v, err = laplacianVariance(g)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = fmt.Errorf("laplacian: non-finite variance")
	}

	return v, err
}

// nativeLaplacianVariance applies [[0,1,0],[1,-4,1],[0,1,0]] to interior pixels.
func nativeLaplacianVariance(g *image.Gray) (float64, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	n := float64(w * h)
	if n == 0 {
		return 0, fmt.Errorf("laplacian: empty image")
	}

	base := g.PixOffset(b.Min.X, b.Min.Y)
	at := func(x, y int) int {
		return int(g.Pix[base+y*g.Stride+x])
	}

	var sum, sumSq int64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			r := int64(at(x, y-1) + at(x-1, y) + at(x+1, y) + at(x, y+1) - 4*at(x, y))
			sum += r
			sumSq += r * r
		}
	}

	mean := float64(sum) / n
	variance := float64(sumSq)/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return variance, nil
}

// edgeCount is the coarse blur score: on a 100x100 copy, the number of interior
// pixels deviating from the mean of their four neighbours by more than 10.
func edgeCount(g *image.Gray) float64 {
	small := processor.ResizeGray(g, fallbackSize, fallbackSize)

	at := func(x, y int) float64 {
		return float64(small.Pix[y*small.Stride+x])
	}

	edges := 0
	for y := 1; y < fallbackSize-1; y++ {
		for x := 1; x < fallbackSize-1; x++ {
			neighbours := (at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1)) / 4
			if math.Abs(at(x, y)-neighbours) > fallbackEdgeDelta {
				edges++
			}
		}
	}

	return float64(edges)
}

func safeEdgeCount(g *image.Gray) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fallback blur check: %v", r)
		}
	}()

	if len(g.Pix) == 0 {
		return 0, fmt.Errorf("fallback blur check: empty image")
	}

	return edgeCount(g), nil
}
