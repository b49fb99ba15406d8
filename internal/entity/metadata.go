package entity

import (
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/types/opt"
)

// Metadata is what a capture device embedded in the photo. The zero value
// means nothing was found, which is a valid extraction result.
type Metadata struct {
	CapturedAt  opt.Option[time.Time]
	DeviceModel opt.Option[string]
	GPSLat      opt.Option[float64]
	GPSLng      opt.Option[float64]
}

func (m Metadata) Empty() bool {
	return !m.CapturedAt.IsSome() && !m.DeviceModel.IsSome() && !m.GPSLat.IsSome() && !m.GPSLng.IsSome()
}

func (m Metadata) GPS() (lat, lng float64, ok bool) {
	lat, latOK := m.GPSLat.Get()
	lng, lngOK := m.GPSLng.Get()

	return lat, lng, latOK && lngOK
}
