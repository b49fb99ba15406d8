package usecase

import (
	"context"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/google/uuid"
)

type (
	PhotoUseCase interface {
		UploadPhoto(ctx context.Context, upload dto.Upload) (*entity.Photo, error)
		GetPhoto(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
		Reprocess(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
	}

	OutboxUseCase interface {
		ClaimPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		RequeueStaleEvents(ctx context.Context, olderThan time.Duration) error
		CleanupOutbox(ctx context.Context, olderThan time.Duration) error
	}

	PhotoQCUseCase interface {
		Process(ctx context.Context, task dto.Task) (entity.JobResult, error)
	}
)
