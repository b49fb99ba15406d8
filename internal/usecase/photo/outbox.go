package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
)

// ClaimPendingEvents selects a batch of pending events and marks it processing
// in one transaction, so two relays never publish the same rows.
func (uc *PhotoUseCase) ClaimPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	var events []*entity.OutboxEvent

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		events, err = uc.outbox.GetPendingEvents(ctx, maxRetries, limit)
		if err != nil {
			return fmt.Errorf("PhotoUseCase - ClaimPendingEvents - uc.outbox.GetPendingEvents: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		if err := uc.outbox.MarkAsProcessingBatch(ctx, eventIDs(events)); err != nil {
			return fmt.Errorf("PhotoUseCase - ClaimPendingEvents - uc.outbox.MarkAsProcessingBatch: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (uc *PhotoUseCase) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	err := uc.outbox.MarkAsProcessedBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("PhotoUseCase - MarkAsProcessedBatch - uc.outbox.MarkAsProcessedBatch: %w", err)
	}

	return nil
}

func (uc *PhotoUseCase) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	err := uc.outbox.IncrementRetryCountBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("PhotoUseCase - IncrementRetryCountBatch - uc.outbox.IncrementRetryCountBatch: %w", err)
	}

	return nil
}

func (uc *PhotoUseCase) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	err := uc.outbox.MarkMaxRetriesAsFailed(ctx, maxRetries)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - MarkMaxRetriesAsFailed - uc.outbox.MarkMaxRetriesAsFailed: %w", err)
	}

	return nil
}

// RequeueStaleEvents puts back events whose claim was never confirmed, e.g.
// after a relay crash between claim and publish.
func (uc *PhotoUseCase) RequeueStaleEvents(ctx context.Context, olderThan time.Duration) error {
	count, err := uc.outbox.RequeueStaleProcessing(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - RequeueStaleEvents - uc.outbox.RequeueStaleProcessing: %w", err)
	}

	if count > 0 {
		uc.logger.Warn("PhotoUseCase - RequeueStaleEvents - returned stale events to pending, count = %d", count)
	}

	return nil
}

func (uc *PhotoUseCase) CleanupOutbox(ctx context.Context, olderThan time.Duration) error {
	count, err := uc.outbox.DeleteOldProcessedAndFailed(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - CleanupOutbox - uc.outbox.DeleteOldProcessedAndFailed: %w", err)
	}

	if count > 0 {
		uc.logger.Info("PhotoUseCase - CleanupOutbox - deleted old events, count = %d", count)
	}

	return nil
}
