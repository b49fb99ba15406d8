package photoqc_test

import (
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/usecase/photoqc"
	"github.com/andreyxaxa/Photo-QC/pkg/types/opt"
	"github.com/stretchr/testify/assert"
)

var clock = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return clock }

func fullMetadata(capturedAt time.Time, lat, lng float64) entity.Metadata {
	return entity.Metadata{
		CapturedAt:  opt.Some(capturedAt),
		DeviceModel: opt.Some("Pixel 8"),
		GPSLat:      opt.Some(lat),
		GPSLng:      opt.Some(lng),
	}
}

func location(lat, lng float64) *entity.PropertyLocation {
	return &entity.PropertyLocation{Lat: &lat, Lng: &lng}
}

func TestValidate_AllGood(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))

	failures := v.Validate(fullMetadata(clock.Add(-2*time.Minute), 40.0009, -74.0), location(40.0, -74.0))

	assert.Empty(t, failures)
}

func TestValidate_EmptyMetadata(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))

	failures := v.Validate(entity.Metadata{}, location(40, -74))

	assert.Equal(t, []string{
		"Missing capture timestamp metadata",
		"Missing device model metadata",
		"Missing GPS metadata",
	}, failures)
}

func TestValidate_FreshnessBoundary(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))
	loc := location(40, -74)

	exactly := v.Validate(fullMetadata(clock.Add(-30*time.Minute), 40, -74), loc)
	assert.Empty(t, exactly)

	stale := v.Validate(fullMetadata(clock.Add(-31*time.Minute), 40, -74), loc)
	assert.Equal(t, []string{"Capture timestamp is older than 30 minutes"}, stale)

	justOver := v.Validate(fullMetadata(clock.Add(-30*time.Minute-time.Second), 40, -74), loc)
	assert.Len(t, justOver, 1)
}

func TestValidate_TimestampComparedInUTC(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))
	tz := time.FixedZone("UTC+3", 3*60*60)

	// 14:50 at UTC+3 is 11:50 UTC, ten minutes ago
	failures := v.Validate(fullMetadata(time.Date(2024, 3, 15, 14, 50, 0, 0, tz), 40, -74), location(40, -74))

	assert.Empty(t, failures)
}

func TestValidate_Geofence(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))
	md := fullMetadata(clock, 40.009, -74.0)

	failures := v.Validate(md, location(40.0, -74.0))

	assert.Equal(t, []string{"Photo GPS mismatch: 1.00km from property"}, failures)
}

func TestValidate_PropertyWithoutCoordinatesSkipsGeofence(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))
	md := fullMetadata(clock, 10, 10)

	assert.Empty(t, v.Validate(md, nil))
	assert.Empty(t, v.Validate(md, &entity.PropertyLocation{}))

	lat := 40.0
	assert.Empty(t, v.Validate(md, &entity.PropertyLocation{Lat: &lat}))
}

func TestValidate_PartialGPSIsMissing(t *testing.T) {
	v := photoqc.NewValidator(photoqc.WithClock(fixedClock))
	md := fullMetadata(clock, 40, -74)
	md.GPSLng = opt.None[float64]()

	assert.Equal(t, []string{"Missing GPS metadata"}, v.Validate(md, nil))
}

func TestValidate_CustomLimits(t *testing.T) {
	v := photoqc.NewValidator(
		photoqc.WithClock(fixedClock),
		photoqc.FreshnessWindow(10*time.Minute),
		photoqc.GeofenceRadiusKM(2),
	)

	failures := v.Validate(fullMetadata(clock.Add(-15*time.Minute), 40.009, -74.0), location(40.0, -74.0))

	assert.Equal(t, []string{"Capture timestamp is older than 10 minutes"}, failures)
}

func TestValidate_ZeroLimitsAreHonored(t *testing.T) {
	v := photoqc.NewValidator(
		photoqc.WithClock(fixedClock),
		photoqc.FreshnessWindow(0),
		photoqc.GeofenceRadiusKM(0),
	)

	assert.Empty(t, v.Validate(fullMetadata(clock, 40.0, -74.0), location(40.0, -74.0)))

	failures := v.Validate(fullMetadata(clock.Add(-time.Minute), 40.0009, -74.0), location(40.0, -74.0))
	assert.Equal(t, []string{
		"Capture timestamp is older than 0 minutes",
		"Photo GPS mismatch: 0.10km from property",
	}, failures)
}

func TestValidate_NegativeLimitsKeepDefaults(t *testing.T) {
	v := photoqc.NewValidator(
		photoqc.WithClock(fixedClock),
		photoqc.FreshnessWindow(-time.Minute),
		photoqc.GeofenceRadiusKM(-1),
	)

	assert.Empty(t, v.Validate(fullMetadata(clock.Add(-20*time.Minute), 40.0009, -74.0), location(40.0, -74.0)))
}
