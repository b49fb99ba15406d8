package v1

import (
	"github.com/andreyxaxa/Photo-QC/internal/usecase"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewPhotoRoutes(apiV1Group fiber.Router, photo usecase.PhotoUseCase, l logger.Interface) {
	r := &V1{photo: photo, logger: l}

	{
		apiV1Group.Post("/photos", r.uploadPhoto)
		apiV1Group.Get("/photos/:id", r.getPhoto)
		apiV1Group.Post("/photos/:id/reprocess", r.reprocessPhoto)
	}
}
