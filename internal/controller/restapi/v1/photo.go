package v1

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andreyxaxa/Photo-QC/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Photo-QC/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// @Summary  	Upload property photo
// @Description Stores the original in S3, registers a PENDING photo and queues the process_photo job
// @Tags 		photos
// @Accept 		mpfd
// @Produce 	json
// @Param 		file 	    formData file   true  "Photo (jpg, png, webp)"
// @Param 		property_id formData string true  "Property ID (uuid)"
// @Param 		photo_type  formData string false "Photo type" Enums(EXTERIOR, INTERIOR, DOCUMENT, OTHER)
// @Param 		sequence    formData int    false "Position within the property's photo set"
// @Success 	202 {object} response.Photo
// @Failure 	400 {object} response.Error "Empty file or wrong parameters"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/photos [post]
func (r *V1) uploadPhoto(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "file is required")
	}

	// 1. size
	if file.Size == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "file is empty")
	}

	if file.Size > validate.MaxFileSize {
		return errorResponse(ctx, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file size cant be more than %d bytes", validate.MaxFileSize))
	}

	// 2. content type and extension
	contentType := file.Header.Get("Content-Type")
	if !validate.AllowedContentTypes[contentType] {
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file type. Allowed: jpeg, png, webp")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !validate.AllowedExtensions[ext] {
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file extension. Allowed: .jpg, .jpeg, .png, .webp")
	}

	// 3. form fields
	propertyID, err := uuid.Parse(ctx.FormValue("property_id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "property_id must be a uuid")
	}

	photoType, ok := entity.ParsePhotoType(strings.ToUpper(ctx.FormValue("photo_type")))
	if !ok {
		return errorResponse(ctx, http.StatusBadRequest, "invalid photo_type. Allowed: EXTERIOR, INTERIOR, DOCUMENT, OTHER")
	}

	sequence := 0
	if s := ctx.FormValue("sequence"); s != "" {
		sequence, err = strconv.Atoi(s)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "sequence must be a number")
		}
		if sequence < 0 || sequence > validate.MaxSequence {
			return errorResponse(ctx, http.StatusBadRequest,
				fmt.Sprintf("sequence must be between 0 and %d", validate.MaxSequence))
		}
	}

	// 4. open
	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with opening the file")
	}
	defer fileReader.Close()

	// 5. store and enqueue
	photo, err := r.photo.UploadPhoto(ctx.UserContext(), dto.Upload{
		Data:         fileReader,
		OriginalName: file.Filename,
		ContentType:  contentType,
		Size:         file.Size,
		PropertyID:   propertyID,
		PhotoType:    photoType,
		Sequence:     sequence,
	})
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusAccepted).JSON(response.NewPhoto(photo))
}

// @Summary 	Get photo
// @Description Returns the photo's QC status, notes and extracted metadata
// @Tags 		photos
// @Produce 	json
// @Param 		id path string true "Photo ID (uuid)"
// @Success 	200 {object} response.Photo
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/photos/{id} [get]
func (r *V1) getPhoto(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	photo, err := r.photo.GetPhoto(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "photo not found")
		}
		r.logger.Error(err, "restapi - v1 - getPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.NewPhoto(photo))
}

// @Summary 	Reprocess photo
// @Description Queues another QC run. The stored verdict is overwritten when the job finishes
// @Tags 		photos
// @Produce 	json
// @Param		id 	path	 string true "Photo ID (uuid)"
// @Success		202 {object} response.Photo
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/photos/{id}/reprocess [post]
func (r *V1) reprocessPhoto(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	photo, err := r.photo.Reprocess(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "photo not found")
		}
		r.logger.Error(err, "restapi - v1 - reprocessPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusAccepted).JSON(response.NewPhoto(photo))
}
