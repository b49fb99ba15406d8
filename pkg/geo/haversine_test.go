package geo_test

import (
	"math"
	"testing"

	"github.com/andreyxaxa/Photo-QC/pkg/geo"
	"github.com/stretchr/testify/assert"
)

func TestHaversineKM_CoincidentPoints(t *testing.T) {
	points := [][2]float64{{0, 0}, {12.9716, 77.5946}, {-33.8688, 151.2093}, {89.9, -179.9}}

	for _, p := range points {
		assert.Equal(t, 0.0, geo.HaversineKM(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversineKM_Symmetric(t *testing.T) {
	a := [2]float64{51.5074, -0.1278}
	b := [2]float64{48.8566, 2.3522}

	ab := geo.HaversineKM(a[0], a[1], b[0], b[1])
	ba := geo.HaversineKM(b[0], b[1], a[0], a[1])

	assert.Equal(t, ab, ba)
	// London - Paris
	assert.InDelta(t, 343.5, ab, 1.0)
}

func TestHaversineKM_OneDegreeOfLatitude(t *testing.T) {
	assert.InDelta(t, 111.195, geo.HaversineKM(0, 0, 1, 0), 0.001)
}

func TestHaversineKM_AntipodalPointsStayFinite(t *testing.T) {
	halfCircumference := math.Pi * geo.EarthRadiusKM

	for i := -900; i <= 900; i++ {
		lat := float64(i) / 10
		for _, lng := range []float64{0, 10.5, 37.3, -120.7, 179.9} {
			d := geo.HaversineKM(lat, lng, -lat, lng+180)

			assert.False(t, math.IsNaN(d), "lat=%v lng=%v", lat, lng)
			assert.InDelta(t, halfCircumference, d, 1e-3, "lat=%v lng=%v", lat, lng)
		}
	}
}
