package photoqc

import (
	"github.com/andreyxaxa/Photo-QC/internal/entity"
)

const (
	IssueBlurry      = "Image is blurry"
	IssueTooDark     = "Image is too dark"
	IssueTooBright   = "Image is too bright"
	IssueGlare       = "Image has glare"
	IssueUndecodable = "Image could not be decoded"

	WarningSlightlyBlurry = "Image may be slightly blurry"
	WarningSomeGlare      = "Image may have some glare"
)

// User-facing remediation, one per verdict.
const (
	MessageBlurry      = "Please retake the photo. Hold the camera steady and ensure good lighting."
	MessageTooDark     = "Please retake the photo in better lighting conditions."
	MessageTooBright   = "Please retake the photo. Avoid pointing the camera directly at bright light sources."
	MessageGlare       = "Please retake the photo. Avoid capturing direct sunlight or reflections."
	MessageUndecodable = "We could not read this file. Please upload a JPEG, PNG or WebP photo."
	MessageUnverified  = "Please take the photo on site with your device camera so its time and location can be verified."
	MessageWarnings    = "The photo quality could be improved. You can proceed or retake for better results."
	MessageOK          = "Photo quality looks good!"
)

const (
	blurWarningFactor  = 1.5
	glareWarningFactor = 0.5
)

// Decide folds the pixel checks and metadata failures into a verdict.
// Near-threshold warnings are not raised for checks that reported an error.
func Decide(q entity.QualityReport, metadataFailures []string) entity.Verdict {
	v := entity.Verdict{
		Quality:          q,
		MetadataFailures: append([]string{}, metadataFailures...),
		Issues:           []string{},
		Warnings:         []string{},
	}

	if q.Blur.IsBlurry {
		v.Issues = append(v.Issues, IssueBlurry)
	} else if q.Blur.Error == "" && q.Blur.Score < q.Blur.Threshold*blurWarningFactor {
		v.Warnings = append(v.Warnings, WarningSlightlyBlurry)
	}

	if q.Brightness.IsTooDark {
		v.Issues = append(v.Issues, IssueTooDark)
	} else if q.Brightness.IsTooBright {
		v.Issues = append(v.Issues, IssueTooBright)
	}

	if q.Glare.HasGlare {
		v.Issues = append(v.Issues, IssueGlare)
	} else if q.Glare.Error == "" && q.Glare.Percentage > q.Glare.Threshold*glareWarningFactor {
		v.Warnings = append(v.Warnings, WarningSomeGlare)
	}

	if q.Undecodable {
		v.Issues = append(v.Issues, IssueUndecodable)
	}

	v.Issues = append(v.Issues, metadataFailures...)

	switch {
	case len(v.Issues) > 0:
		v.Status = entity.QCRejected
		v.Recommendation = entity.RecommendReject
	case len(v.Warnings) > 0:
		v.Status = entity.QCApproved
		v.Recommendation = entity.RecommendReview
	default:
		v.Status = entity.QCApproved
		v.Recommendation = entity.RecommendApprove
	}

	v.Message = remediation(q, len(metadataFailures) > 0, len(v.Warnings) > 0)

	return v
}

func remediation(q entity.QualityReport, metadataFailed, warned bool) string {
	switch {
	case q.Blur.IsBlurry:
		return MessageBlurry
	case q.Brightness.IsTooDark:
		return MessageTooDark
	case q.Brightness.IsTooBright:
		return MessageTooBright
	case q.Glare.HasGlare:
		return MessageGlare
	case q.Undecodable:
		return MessageUndecodable
	case metadataFailed:
		return MessageUnverified
	case warned:
		return MessageWarnings
	}

	return MessageOK
}
