package response

import (
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
)

type Error struct {
	Error string `json:"error" example:"message"`
}

type Photo struct {
	ID          string   `json:"id"`
	PropertyID  string   `json:"property_id"`
	StorageURL  string   `json:"storage_url"`
	PhotoType   string   `json:"photo_type"`
	Sequence    int      `json:"sequence"`
	QCStatus    string   `json:"qc_status"`
	QCNotes     *string  `json:"qc_notes,omitempty"`
	CapturedAt  *string  `json:"captured_at,omitempty"`
	DeviceModel *string  `json:"device_model,omitempty"`
	GPSLat      *float64 `json:"gps_lat,omitempty"`
	GPSLng      *float64 `json:"gps_lng,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

func NewPhoto(p *entity.Photo) Photo {
	resp := Photo{
		ID:          p.ID.String(),
		PropertyID:  p.PropertyID.String(),
		StorageURL:  p.StorageURL,
		PhotoType:   string(p.PhotoType),
		Sequence:    p.Sequence,
		QCStatus:    string(p.QCStatus),
		QCNotes:     p.QCNotes,
		DeviceModel: p.DeviceModel,
		GPSLat:      p.GPSLat,
		GPSLng:      p.GPSLng,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}

	if p.CapturedAt != nil {
		at := p.CapturedAt.UTC().Format(time.RFC3339)
		resp.CapturedAt = &at
	}

	return resp
}
