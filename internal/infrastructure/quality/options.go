package quality

type Option func(*Analyzer)

// WithThresholds replaces all four thresholds as given; zero is a valid limit.
// Start from DefaultThresholds to override only some of them.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

func WithBlurThreshold(v float64) Option {
	return func(a *Analyzer) {
		a.thresholds.Blur = v
	}
}

func WithBrightnessRange(minMean, maxMean float64) Option {
	return func(a *Analyzer) {
		a.thresholds.BrightnessMin = minMean
		a.thresholds.BrightnessMax = maxMean
	}
}

func WithGlareThreshold(pct float64) Option {
	return func(a *Analyzer) {
		a.thresholds.Glare = pct
	}
}
