package photoqc

import (
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/geo"
)

const (
	_defaultFreshness  = 30 * time.Minute
	_defaultGeofenceKM = 0.5

	msgMissingCapturedAt = "Missing capture timestamp metadata"
	msgMissingDevice     = "Missing device model metadata"
	msgMissingGPS        = "Missing GPS metadata"
)

// Validator cross-checks extracted metadata against the capture clock and the
// property's declared position. It only reports; it never fails.
type Validator struct {
	now        func() time.Time
	freshness  time.Duration
	geofenceKM float64
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		now:        time.Now,
		freshness:  _defaultFreshness,
		geofenceKM: _defaultGeofenceKM,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate returns failure reasons in a fixed order: freshness, device, geofence.
// A nil loc, or one without both coordinates, skips the distance comparison.
func (v *Validator) Validate(md entity.Metadata, loc *entity.PropertyLocation) []string {
	failures := make([]string, 0, 3)

	if at, ok := md.CapturedAt.Get(); !ok {
		failures = append(failures, msgMissingCapturedAt)
	} else if at.UTC().Before(v.now().UTC().Add(-v.freshness)) {
		failures = append(failures, fmt.Sprintf("Capture timestamp is older than %d minutes", int(v.freshness.Minutes())))
	}

	if !md.DeviceModel.IsSome() {
		failures = append(failures, msgMissingDevice)
	}

	lat, lng, ok := md.GPS()
	if !ok {
		failures = append(failures, msgMissingGPS)
	} else if pLat, pLng, known := loc.Coordinates(); known {
		if d := geo.HaversineKM(lat, lng, pLat, pLng); d > v.geofenceKM {
			failures = append(failures, fmt.Sprintf("Photo GPS mismatch: %.2fkm from property", d))
		}
	}

	return failures
}

type ValidatorOption func(*Validator)

func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// FreshnessWindow sets the maximum capture age. Zero only accepts photos taken
// at or after the clock reading; a negative window keeps the default.
func FreshnessWindow(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		if d >= 0 {
			v.freshness = d
		}
	}
}

// GeofenceRadiusKM sets the allowed distance from the property. Zero requires
// an exact match; a negative radius keeps the default.
func GeofenceRadiusKM(km float64) ValidatorOption {
	return func(v *Validator) {
		if km >= 0 {
			v.geofenceKM = km
		}
	}
}
