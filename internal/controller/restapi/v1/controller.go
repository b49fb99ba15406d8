package v1

import (
	"github.com/andreyxaxa/Photo-QC/internal/usecase"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
)

type V1 struct {
	photo  usecase.PhotoUseCase
	logger logger.Interface
}
