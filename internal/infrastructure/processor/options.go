package processor

type Option func(*ImageProcessor)

// MaxSize bounds the normalized derivative.
func MaxSize(width, height int) Option {
	return func(p *ImageProcessor) {
		if width > 0 {
			p.maxWidth = width
		}
		if height > 0 {
			p.maxHeight = height
		}
	}
}

func JPEGQuality(q int) Option {
	return func(p *ImageProcessor) {
		if q > 0 && q <= 100 {
			p.jpegQuality = q
		}
	}
}
