// Package quality scores a decoded photo for blur, exposure and glare.
//
// Every check works on the 8-bit luminance channel and reports its raw score
// next to the flag it derives, so stored diagnostics can be audited later.
// Checks never fail: an internal error yields a neutral result with Error set.
package quality

import (
	"fmt"
	"image"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
)

type Thresholds struct {
	Blur          float64 `json:"blur" yaml:"blur"`
	BrightnessMin float64 `json:"brightness_min" yaml:"brightness_min"`
	BrightnessMax float64 `json:"brightness_max" yaml:"brightness_max"`
	Glare         float64 `json:"glare" yaml:"glare"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Blur:          30,
		BrightnessMin: 40,
		BrightnessMax: 220,
		Glare:         70,
	}
}

type Analyzer struct {
	thresholds Thresholds
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

func (a *Analyzer) Analyze(img image.Image) entity.QualityReport {
	gray, err := safeGrayscale(img)
	if err != nil {
		return a.UndecodableReport(err)
	}

	return entity.QualityReport{
		Blur:       a.Blur(gray),
		Brightness: a.Brightness(gray),
		Glare:      a.Glare(gray),
	}
}

// UndecodableReport is the neutral report for a payload that is not an image.
func (a *Analyzer) UndecodableReport(cause error) entity.QualityReport {
	note := "image could not be decoded"
	if cause != nil {
		note = cause.Error()
	}

	return entity.QualityReport{
		Blur:        entity.BlurResult{Threshold: a.thresholds.Blur, Error: note},
		Brightness:  entity.BrightnessResult{Min: a.thresholds.BrightnessMin, Max: a.thresholds.BrightnessMax, Error: note},
		Glare:       entity.GlareResult{Threshold: a.thresholds.Glare, Error: note},
		Undecodable: true,
	}
}

func safeGrayscale(img image.Image) (g *image.Gray, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grayscale conversion: %v", r)
		}
	}()

	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	g = processor.Grayscale(img)
	if len(g.Pix) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	return g, nil
}
