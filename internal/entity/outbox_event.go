package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventProcessPhoto is the job name carried by QC outbox events.
const EventProcessPhoto = "process_photo"

type OutboxEvent struct {
	ID          uuid.UUID  `json:"id"`
	AggregateID uuid.UUID  `json:"aggregate_id"` // photo id
	EventType   string     `json:"event_type"`
	Payload     []byte     `json:"payload"`
	Status      Status     `json:"status"` // pending, processing, processed, failed
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	RetryCount  int        `json:"retry_count"`
}
