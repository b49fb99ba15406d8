package entity

// Status is the delivery state of an outbox event.
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Processed  Status = "processed"
	Failed     Status = "failed"
)

// QCStatus is the quality-control state of a photo.
type QCStatus string

const (
	QCPending  QCStatus = "PENDING"
	QCApproved QCStatus = "APPROVED"
	QCRejected QCStatus = "REJECTED"
)

func (s QCStatus) Valid() bool {
	switch s {
	case QCPending, QCApproved, QCRejected:
		return true
	}

	return false
}
