package dto

import "github.com/google/uuid"

// Task is one delivery of the process_photo job.
type Task struct {
	PhotoID    uuid.UUID `json:"photo_id"`
	StorageURL string    `json:"storage_url"`
}
