package entity

const (
	JobCompleted = "completed"
	JobNotFound  = "not_found"
)

// JobResult is what one QC job run reports to the queue's logging layer.
type JobResult struct {
	Status  string `json:"status,omitempty"`
	PhotoID string `json:"photo_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r JobResult) Failed() bool {
	return r.Error != ""
}
