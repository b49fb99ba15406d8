package dto

import (
	"io"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/google/uuid"
)

type Upload struct {
	Data         io.Reader
	OriginalName string
	ContentType  string
	Size         int64

	PropertyID uuid.UUID
	PhotoType  entity.PhotoType
	Sequence   int
}
