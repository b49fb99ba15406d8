// Package photoqc runs the quality-control job for one stored photo: extract
// metadata, score the pixels, validate provenance, decide and persist.
package photoqc

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure"
	"github.com/andreyxaxa/Photo-QC/internal/repo"
	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/google/uuid"
)

const derivativeContentType = "image/jpeg"

type PhotoQCUseCase struct {
	photos     repo.PhotoRepo
	properties repo.PropertyRepo
	storage    repo.PhotoStorage
	transactor repo.Transactor

	extractor infrastructure.MetadataExtractor
	processor infrastructure.ImageProcessor
	analyzer  infrastructure.QualityAnalyzer
	validator *Validator

	retry  *retry.Executor
	logger logger.Interface
}

func New(
	photos repo.PhotoRepo,
	properties repo.PropertyRepo,
	storage repo.PhotoStorage,
	transactor repo.Transactor,
	extractor infrastructure.MetadataExtractor,
	processor infrastructure.ImageProcessor,
	analyzer infrastructure.QualityAnalyzer,
	validator *Validator,
	executor *retry.Executor,
	l logger.Interface,
) *PhotoQCUseCase {
	return &PhotoQCUseCase{
		photos:     photos,
		properties: properties,
		storage:    storage,
		transactor: transactor,
		extractor:  extractor,
		processor:  processor,
		analyzer:   analyzer,
		validator:  validator,
		retry:      executor,
		logger:     l,
	}
}

// DerivativeKey is where the normalized copy of a photo lives. It is the same
// on every run, so re-runs overwrite it.
func DerivativeKey(photoID uuid.UUID) string {
	return fmt.Sprintf("optimized/%s.jpg", photoID)
}

// Process runs one QC job. A non-nil error means a transient failure survived
// the retry policy and the queue should redeliver the job. Permanent and
// unexpected failures are reported in JobResult.Error with a nil error, and
// the photo stays PENDING.
func (uc *PhotoQCUseCase) Process(ctx context.Context, task dto.Task) (res entity.JobResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error(fmt.Errorf("panic: %v", r), "PhotoQCUseCase - Process - photo_id=%s", task.PhotoID)
			res = entity.JobResult{PhotoID: task.PhotoID.String(), Error: fmt.Sprintf("internal error: %v", r)}
			err = nil
		}
	}()

	// 1. photo record
	photo, err := retry.Do(ctx, uc.retry, "load photo", func(ctx context.Context) (*entity.Photo, error) {
		photo, err := uc.photos.GetByID(ctx, task.PhotoID)
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, errs.Permanent(err)
		}
		return photo, err
	})
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return uc.notFound(task.PhotoID), nil
		}
		return uc.fail(task.PhotoID, "load photo", err)
	}

	// 2. stored bytes and embedded metadata
	key, err := uc.storageKey(photo, task)
	if err != nil {
		return uc.fail(photo.ID, "resolve storage key", err)
	}

	data, err := retry.Do(ctx, uc.retry, "fetch photo", func(ctx context.Context) ([]byte, error) {
		return uc.storage.Fetch(ctx, key)
	})
	if err != nil {
		return uc.fail(photo.ID, "fetch photo", err)
	}

	src := bytesource.FromBytes(data)
	md := uc.extractor.Extract(src)

	// 3-4. decode once, normalize best-effort, score the original pixels
	var (
		report     entity.QualityReport
		derivative []byte
	)

	img, decodeErr := uc.processor.Decode(src.Bytes())
	if decodeErr != nil {
		uc.logger.Warn("PhotoQCUseCase - Process - photo_id=%s undecodable: %v", photo.ID, decodeErr)
		report = uc.analyzer.UndecodableReport(decodeErr)
	} else {
		derivative = uc.normalize(photo.ID, img)
		report = uc.analyzer.Analyze(img)
	}

	// 5. provenance
	loc, err := uc.propertyLocation(ctx, photo.PropertyID)
	if err != nil {
		return uc.fail(photo.ID, "load property location", err)
	}
	failures := uc.validator.Validate(md, loc)

	// 6. verdict
	verdict := Decide(report, failures)

	// 7. persist
	if derivative != nil {
		uc.storeDerivative(ctx, photo.ID, derivative)
	}

	photo.ApplyMetadata(md)
	photo.QCStatus = verdict.Status
	notes := Notes(verdict)
	photo.QCNotes = &notes

	err = uc.retry.Run(ctx, "persist verdict", func(ctx context.Context) error {
		return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := uc.photos.UpdateQC(ctx, photo); err != nil {
				if errors.Is(err, errs.ErrRecordNotFound) {
					return errs.Permanent(err)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return uc.notFound(photo.ID), nil
		}
		return uc.fail(photo.ID, "persist verdict", err)
	}

	uc.logger.Info("PhotoQCUseCase - Process - photo_id=%s qc_status=%s recommendation=%s",
		photo.ID, verdict.Status, verdict.Recommendation)

	return entity.JobResult{
		Status:  entity.JobCompleted,
		PhotoID: photo.ID.String(),
		Message: verdict.Message,
	}, nil
}

func (uc *PhotoQCUseCase) storageKey(photo *entity.Photo, task dto.Task) (string, error) {
	if photo.StorageKey != "" {
		return photo.StorageKey, nil
	}

	if key, ok := uc.storage.KeyFromURL(task.StorageURL); ok {
		return key, nil
	}
	if key, ok := uc.storage.KeyFromURL(photo.StorageURL); ok {
		return key, nil
	}

	return "", errs.Permanent(fmt.Errorf("PhotoQCUseCase - storageKey: no storage key for url %q", task.StorageURL))
}

// propertyLocation returns nil when the property is unknown.
func (uc *PhotoQCUseCase) propertyLocation(ctx context.Context, propertyID uuid.UUID) (*entity.PropertyLocation, error) {
	loc, err := retry.Do(ctx, uc.retry, "load property location", func(ctx context.Context) (*entity.PropertyLocation, error) {
		loc, err := uc.properties.GetLocation(ctx, propertyID)
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, nil
		}
		return loc, err
	})
	if err != nil {
		return nil, fmt.Errorf("PhotoQCUseCase - propertyLocation - uc.properties.GetLocation: %w", err)
	}

	return loc, nil
}

func (uc *PhotoQCUseCase) normalize(photoID uuid.UUID, img image.Image) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Warn("PhotoQCUseCase - normalize - photo_id=%s panic: %v", photoID, r)
			out = nil
		}
	}()

	out, err := uc.processor.Optimize(img)
	if err != nil {
		uc.logger.Warn("PhotoQCUseCase - normalize - photo_id=%s: %v", photoID, err)
		return nil
	}

	return out
}

func (uc *PhotoQCUseCase) storeDerivative(ctx context.Context, photoID uuid.UUID, data []byte) {
	key := DerivativeKey(photoID)

	err := uc.retry.Run(ctx, "store derivative", func(ctx context.Context) error {
		_, err := uc.storage.Store(ctx, key, data, derivativeContentType)
		return err
	})
	if err != nil {
		uc.logger.Warn("PhotoQCUseCase - storeDerivative - photo_id=%s key=%s: %v", photoID, key, err)
	}
}

func (uc *PhotoQCUseCase) notFound(photoID uuid.UUID) entity.JobResult {
	uc.logger.Info("PhotoQCUseCase - Process - photo_id=%s not found, skipping", photoID)

	return entity.JobResult{Status: entity.JobNotFound, PhotoID: photoID.String()}
}

func (uc *PhotoQCUseCase) fail(photoID uuid.UUID, step string, err error) (entity.JobResult, error) {
	res := entity.JobResult{
		PhotoID: photoID.String(),
		Error:   fmt.Sprintf("%s: %v", step, err),
	}

	if errs.IsPermanent(err) {
		uc.logger.Error(err, "PhotoQCUseCase - Process - photo_id=%s %s: permanent failure, photo left pending", photoID, step)
		return res, nil
	}

	return res, fmt.Errorf("PhotoQCUseCase - Process - %s: %w", step, err)
}
