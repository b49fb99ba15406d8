package testutil

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Uniform is a w x h image with every pixel set to gray level v.
func Uniform(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}

	return img
}

// Stripes alternates vertical bands of levels a and b, each width pixels wide.
func Stripes(w, h, width int, a, b uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := a
			if (x/width)%2 == 1 {
				v = b
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	return img
}

// GlarePatch is a mid-gray image whose left share columns are saturated white.
func GlarePatch(w, h int, share float64) *image.Gray {
	img := Stripes(w, h, 4, 100, 156)
	cut := int(float64(w) * share)
	for y := 0; y < h; y++ {
		for x := 0; x < cut; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	return img
}

func EncodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
