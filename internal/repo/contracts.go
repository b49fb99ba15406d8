package repo

import (
	"context"
	"io"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/google/uuid"
)

type (
	PhotoStorage interface {
		Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) error
		Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
		Fetch(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
		URL(key string) string
		KeyFromURL(url string) (string, bool)
	}

	PhotoRepo interface {
		Create(ctx context.Context, photo *entity.Photo) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
		UpdateQC(ctx context.Context, photo *entity.Photo) error
	}

	PropertyRepo interface {
		GetLocation(ctx context.Context, propertyID uuid.UUID) (*entity.PropertyLocation, error)
	}

	OutboxRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		RequeueStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
		DeleteOldProcessedAndFailed(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
