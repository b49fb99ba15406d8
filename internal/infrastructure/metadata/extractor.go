// Package metadata reads capture time, device model and GPS position embedded in a photo.
package metadata

import (
	"strings"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/andreyxaxa/Photo-QC/pkg/types/opt"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifTimeLayout carries no zone; values are read as UTC.
const exifTimeLayout = "2006:01:02 15:04:05"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract never fails. Missing or unreadable metadata leaves the matching
// fields absent, so a photo without an EXIF block yields an empty Metadata.
// A broken sub-IFD only drops the tags stored in it.
func (e *Extractor) Extract(src bytesource.Source) (md entity.Metadata) {
	defer func() {
		if r := recover(); r != nil {
			md = entity.Metadata{}
		}
	}()

	if src.Empty() {
		return md
	}

	x, err := exif.Decode(src.Reader())
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return md
	}

	md.CapturedAt = capturedAt(x)
	md.DeviceModel = deviceModel(x)
	md.GPSLat = coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	md.GPSLng = coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")

	return md
}

func capturedAt(x *exif.Exif) opt.Option[time.Time] {
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		s, ok := stringField(x, field)
		if !ok {
			continue
		}

		t, err := time.ParseInLocation(exifTimeLayout, s, time.UTC)
		if err != nil {
			continue
		}

		return opt.Some(t)
	}

	return opt.None[time.Time]()
}

func deviceModel(x *exif.Exif) opt.Option[string] {
	s, ok := stringField(x, exif.Model)
	if !ok {
		return opt.None[string]()
	}

	return opt.Some(s)
}

// coordinate converts a degrees/minutes/seconds triple to decimal degrees,
// negated when the reference tag equals negRef.
func coordinate(x *exif.Exif, field, refField exif.FieldName, negRef string) opt.Option[float64] {
	tag, err := x.Get(field)
	if err != nil || tag.Count < 3 {
		return opt.None[float64]()
	}

	var parts [3]float64
	for i := range parts {
		v, ok := rational(tag, i)
		if !ok {
			return opt.None[float64]()
		}
		parts[i] = v
	}

	deg := parts[0] + parts[1]/60 + parts[2]/3600

	if ref, ok := stringField(x, refField); ok && strings.EqualFold(ref, negRef) {
		deg = -deg
	}

	return opt.Some(deg)
}

func rational(tag *tiff.Tag, i int) (float64, bool) {
	num, den, err := tag.Rat2(i)
	if err != nil || den == 0 {
		return 0, false
	}

	return float64(num) / float64(den), true
}

func stringField(x *exif.Exif, field exif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}

	s, err := tag.StringVal()
	if err != nil {
		return "", false
	}

	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if s == "" {
		return "", false
	}

	return s, true
}
