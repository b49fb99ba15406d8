package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/repo"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/google/uuid"
)

type PhotoUseCase struct {
	storage    repo.PhotoStorage
	photos     repo.PhotoRepo
	outbox     repo.OutboxRepo
	transactor repo.Transactor

	logger logger.Interface
	now    func() time.Time
}

func New(
	storage repo.PhotoStorage,
	photos repo.PhotoRepo,
	outbox repo.OutboxRepo,
	transactor repo.Transactor,
	l logger.Interface,
) *PhotoUseCase {
	return &PhotoUseCase{
		storage:    storage,
		photos:     photos,
		outbox:     outbox,
		transactor: transactor,
		logger:     l,
		now:        time.Now,
	}
}

// UploadPhoto stores the original and registers a PENDING photo together with
// its process_photo job. If the database side fails the object is removed again.
func (uc *PhotoUseCase) UploadPhoto(ctx context.Context, upload dto.Upload) (*entity.Photo, error) {
	photoID := uuid.New()
	key := originalKey(photoID)

	// 1. object storage
	err := uc.storage.Upload(ctx, key, upload.Data, upload.ContentType, upload.Size)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - UploadPhoto - uc.storage.Upload: %w", err)
	}

	photo := &entity.Photo{
		ID:         photoID,
		PropertyID: upload.PropertyID,
		StorageKey: key,
		StorageURL: uc.storage.URL(key),
		PhotoType:  upload.PhotoType,
		Sequence:   upload.Sequence,
		QCStatus:   entity.QCPending,
		CreatedAt:  uc.now().UTC(),
	}

	// 2. row and job in one transaction
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.photos.Create(ctx, photo); err != nil {
			return fmt.Errorf("PhotoUseCase - UploadPhoto - uc.photos.Create: %w", err)
		}

		return uc.enqueue(ctx, photo)
	})
	if err != nil {
		deleteErr := uc.storage.Delete(ctx, key)
		if deleteErr != nil {
			uc.logger.Error(deleteErr, "PhotoUseCase - UploadPhoto - uc.storage.Delete")
		}
		return nil, fmt.Errorf("PhotoUseCase - UploadPhoto - uc.transactor.WithinTransaction: %w", err)
	}

	return photo, nil
}

func (uc *PhotoUseCase) GetPhoto(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	photo, err := uc.photos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - GetPhoto - uc.photos.GetByID: %w", err)
	}

	return photo, nil
}

// Reprocess queues another QC run for an existing photo. The current verdict
// stays visible until the job overwrites it.
func (uc *PhotoUseCase) Reprocess(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	var photo *entity.Photo

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		photo, err = uc.photos.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("PhotoUseCase - Reprocess - uc.photos.GetByID: %w", err)
		}

		return uc.enqueue(ctx, photo)
	})
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Reprocess - uc.transactor.WithinTransaction: %w", err)
	}

	return photo, nil
}

func (uc *PhotoUseCase) enqueue(ctx context.Context, photo *entity.Photo) error {
	event, err := uc.createOutboxEvent(photo)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - enqueue - uc.createOutboxEvent: %w", err)
	}

	if err := uc.outbox.Create(ctx, event); err != nil {
		return fmt.Errorf("PhotoUseCase - enqueue - uc.outbox.Create: %w", err)
	}

	return nil
}
