package entity

type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReview  Recommendation = "review"
	RecommendReject  Recommendation = "reject"
)

type BlurResult struct {
	Score     float64 `json:"score" yaml:"score"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	IsBlurry  bool    `json:"is_blurry" yaml:"is_blurry"`
	Fallback  bool    `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Error     string  `json:"error,omitempty" yaml:"error,omitempty"`
}

type BrightnessResult struct {
	Score       float64 `json:"score" yaml:"score"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	IsTooDark   bool    `json:"is_too_dark" yaml:"is_too_dark"`
	IsTooBright bool    `json:"is_too_bright" yaml:"is_too_bright"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

type GlareResult struct {
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	HasGlare   bool    `json:"has_glare" yaml:"has_glare"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// QualityReport is the output of the pixel checks.
type QualityReport struct {
	Blur        BlurResult       `json:"blur" yaml:"blur"`
	Brightness  BrightnessResult `json:"brightness" yaml:"brightness"`
	Glare       GlareResult      `json:"glare" yaml:"glare"`
	Undecodable bool             `json:"undecodable,omitempty" yaml:"undecodable,omitempty"`
}

// Verdict is built once per job run and flattened onto Photo.
type Verdict struct {
	Quality          QualityReport  `json:"quality" yaml:"quality"`
	MetadataFailures []string       `json:"metadata_failures" yaml:"metadata_failures"`
	Issues           []string       `json:"issues" yaml:"issues"`
	Warnings         []string       `json:"warnings" yaml:"warnings"`
	Recommendation   Recommendation `json:"recommendation" yaml:"recommendation"`
	Status           QCStatus       `json:"status" yaml:"status"`
	Message          string         `json:"message" yaml:"message"`
}

func (v Verdict) Passed() bool {
	return v.Status == QCApproved
}
