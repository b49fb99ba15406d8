package outbox

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/infrastructure"
	"github.com/andreyxaxa/Photo-QC/internal/usecase"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
)

// compensateTimeout bounds the retry-count write after a failed publish. It
// runs detached from the batch ctx, which may already be expired.
const compensateTimeout = 5 * time.Second

// OutboxRelay moves process_photo jobs from the outbox table to Kafka.
type OutboxRelay struct {
	ob     usecase.OutboxUseCase
	es     infrastructure.EventsSender
	logger logger.Interface

	pollInterval        time.Duration
	cleanupInterval     time.Duration
	cleanupAge          time.Duration
	markFailedInterval  time.Duration
	staleInterval       time.Duration
	staleAge            time.Duration
	processBatchTimeout time.Duration
	batchSize           int
	maxRetries          int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	ob usecase.OutboxUseCase,
	es infrastructure.EventsSender,
	l logger.Interface,
	pollInterval time.Duration,
	cleanupInterval time.Duration,
	cleanupAge time.Duration,
	markFailedInterval time.Duration,
	staleInterval time.Duration,
	staleAge time.Duration,
	processBatchTimeout time.Duration,
	batchSize int,
	maxRetries int,
) *OutboxRelay {
	return &OutboxRelay{
		ob:                  ob,
		es:                  es,
		logger:              l,
		pollInterval:        pollInterval,
		cleanupInterval:     cleanupInterval,
		cleanupAge:          cleanupAge,
		markFailedInterval:  markFailedInterval,
		staleInterval:       staleInterval,
		staleAge:            staleAge,
		processBatchTimeout: processBatchTimeout,
		batchSize:           batchSize,
		maxRetries:          maxRetries,
	}
}

func (r *OutboxRelay) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("OutboxRelay - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	// 1. publish pending jobs
	r.worker(r.pollInterval, func() {
		batchCtx, batchCancel := context.WithTimeout(r.ctx, r.processBatchTimeout)
		r.processEventsBatch(batchCtx)
		batchCancel()
	})

	// 2. give up on events that keep failing to publish
	r.worker(r.markFailedInterval, func() {
		err := r.ob.MarkMaxRetriesAsFailed(r.ctx, r.maxRetries)
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Start - worker - r.ob.MarkMaxRetriesAsFailed")
		}
	})

	// 3. put back claims that were never confirmed
	r.worker(r.staleInterval, func() {
		err := r.ob.RequeueStaleEvents(r.ctx, r.staleAge)
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Start - worker - r.ob.RequeueStaleEvents")
		}
	})

	// 4. drop old processed/failed rows
	r.worker(r.cleanupInterval, func() {
		err := r.ob.CleanupOutbox(r.ctx, r.cleanupAge)
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Start - worker - r.ob.CleanupOutbox")
		}
	})

	return nil
}

func (r *OutboxRelay) processEventsBatch(ctx context.Context) {
	// 1. pending -> processing
	events, err := r.ob.ClaimPendingEvents(ctx, r.maxRetries, r.batchSize)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.ob.ClaimPendingEvents")

		return
	}
	if len(events) == 0 {
		return
	}

	// 2. publish
	err = r.es.SendEvents(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.es.SendEvents")
		// back to pending with one more retry on the counter
		compCtx, compCancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
		incErr := r.ob.IncrementRetryCountBatch(compCtx, events)
		compCancel()
		if incErr != nil {
			r.logger.Error(incErr, "OutboxRelay - processEventsBatch - r.ob.IncrementRetryCountBatch")
		}
		return
	}

	// 3. processing -> processed
	err = r.ob.MarkAsProcessedBatch(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.ob.MarkAsProcessedBatch")

		return
	}

	r.logger.Debug("OutboxRelay - processEventsBatch - published %d events", len(events))
}

func (r *OutboxRelay) worker(interval time.Duration, task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (r *OutboxRelay) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		r.es.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
