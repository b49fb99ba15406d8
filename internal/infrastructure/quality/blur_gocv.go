//go:build gocv

package quality

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// laplacianVariance runs the same 4-neighbour kernel through OpenCV. ksize 1
// selects [[0,1,0],[1,-4,1],[0,1,0]]; the border is zeroed afterwards.
func laplacianVariance(g *image.Gray) (float64, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()

	base := g.PixOffset(b.Min.X, b.Min.Y)
	pix := g.Pix
	if base != 0 || g.Stride != w {
		pix = make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			pix = append(pix, g.Pix[base+y*g.Stride:base+y*g.Stride+w]...)
		}
	}

	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, pix)
	if err != nil {
		return 0, fmt.Errorf("laplacian - gocv.NewMatFromBytes: %w", err)
	}
	defer src.Close()

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(src, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	response := gocv.Zeros(h, w, gocv.MatTypeCV64F)
	defer response.Close()

	inner := image.Rect(1, 1, w-1, h-1)
	from := lap.Region(inner)
	defer from.Close()
	to := response.Region(inner)
	defer to.Close()
	from.CopyTo(&to)

	mean := gocv.NewMat()
	defer mean.Close()
	stdDev := gocv.NewMat()
	defer stdDev.Close()
	gocv.MeanStdDev(response, &mean, &stdDev)

	sd := stdDev.GetDoubleAt(0, 0)

	return sd * sd, nil
}
