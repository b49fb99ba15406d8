package entity

import (
	"time"

	"github.com/google/uuid"
)

type PhotoType string

const (
	PhotoExterior PhotoType = "EXTERIOR"
	PhotoInterior PhotoType = "INTERIOR"
	PhotoDocument PhotoType = "DOCUMENT"
	PhotoOther    PhotoType = "OTHER"
)

func ParsePhotoType(s string) (PhotoType, bool) {
	switch t := PhotoType(s); t {
	case PhotoExterior, PhotoInterior, PhotoDocument, PhotoOther:
		return t, true
	case "":
		return PhotoOther, true
	}

	return "", false
}

type Photo struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`

	StorageKey string    `json:"storage_key"`
	StorageURL string    `json:"storage_url"`
	PhotoType  PhotoType `json:"photo_type"`
	Sequence   int       `json:"sequence"`

	// extracted by the QC job
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
	DeviceModel *string    `json:"device_model,omitempty"`
	GPSLat      *float64   `json:"gps_lat,omitempty"`
	GPSLng      *float64   `json:"gps_lng,omitempty"`

	QCStatus QCStatus `json:"qc_status"`
	QCNotes  *string  `json:"qc_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ApplyMetadata overwrites every extracted field, clearing the ones absent from m.
func (p *Photo) ApplyMetadata(m Metadata) {
	p.CapturedAt = m.CapturedAt.Ptr()
	p.DeviceModel = m.DeviceModel.Ptr()
	p.GPSLat = m.GPSLat.Ptr()
	p.GPSLng = m.GPSLng.Ptr()
}
