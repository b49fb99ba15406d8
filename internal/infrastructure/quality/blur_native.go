//go:build !gocv

package quality

import "image"

func laplacianVariance(g *image.Gray) (float64, error) {
	return nativeLaplacianVariance(g)
}
