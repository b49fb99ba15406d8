package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/infrastructure"
	"github.com/andreyxaxa/Photo-QC/internal/usecase"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

// Job is the declared retry policy of the queue-level job.
type Job struct {
	Name       string
	MaxRetries int
	Backoff    time.Duration
}

type KafkaController struct {
	qc     usecase.PhotoQCUseCase
	er     infrastructure.EventsReader
	dlq    infrastructure.DeadLetterSender
	logger logger.Interface

	job      Job
	jobRetry *retry.Executor

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	qc usecase.PhotoQCUseCase,
	er infrastructure.EventsReader,
	dlq infrastructure.DeadLetterSender,
	l logger.Interface,
	job Job,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *KafkaController {
	if workers < 1 {
		workers = 1
	}

	c := &KafkaController{
		qc:             qc,
		er:             er,
		dlq:            dlq,
		logger:         l,
		job:            job,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}

	c.jobRetry = retry.New(l,
		retry.MaxAttempts(job.MaxRetries+1),
		retry.BaseDelay(job.Backoff),
		retry.WithClassifier(c.retryable),
	)

	return c
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				event, err := c.er.ReadEvent(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.er.ReadEvent")
					}
					continue
				}

				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			err := c.runJob(event)
			if err != nil {
				// shutting down: leave the offset uncommitted so the job is redelivered
				if c.ctx.Err() != nil {
					return
				}

				c.logger.Error(err, "KafkaController - worker - job %s exhausted %d retries", c.job.Name, c.job.MaxRetries)
				c.deadLetter(event, err)
			}

			commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
			err = c.er.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.er.CommitEvent")
			}
		}()
	}
}

// runJob runs the QC job for one message under the job's retry policy.
func (c *KafkaController) runJob(event kafka.Message) error {
	if name := eventType(event); name != "" && name != c.job.Name {
		c.logger.Warn("KafkaController - runJob - skipping event of type %q at offset %d", name, event.Offset)
		return nil
	}

	task, err := decodeTask(event)
	if err != nil {
		return err
	}

	return c.jobRetry.Run(c.ctx, c.job.Name, func(ctx context.Context) error {
		processCtx, processCancel := context.WithTimeout(ctx, c.processTimeout)
		defer processCancel()

		res, err := c.qc.Process(processCtx, task)
		if err != nil {
			return fmt.Errorf("KafkaController - runJob - c.qc.Process: %w", err)
		}

		if res.Failed() {
			c.logger.Warn("KafkaController - runJob - photo_id=%s left pending: %s", res.PhotoID, res.Error)
		} else {
			c.logger.Info("KafkaController - runJob - photo_id=%s status=%s message=%q", res.PhotoID, res.Status, res.Message)
		}

		return nil
	})
}

// retryable treats an attempt that ran out of processTimeout as transient.
// A deadline or cancellation caused by shutdown is not retried.
func (c *KafkaController) retryable(err error) bool {
	if errs.IsPermanent(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) && c.ctx != nil && c.ctx.Err() == nil {
		return true
	}

	return retry.DefaultClassifier(err)
}

func (c *KafkaController) deadLetter(event kafka.Message, cause error) {
	if c.dlq == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
	defer cancel()

	err := c.dlq.SendDeadLetter(ctx, event, cause)
	if err != nil {
		c.logger.Error(err, "KafkaController - deadLetter - c.dlq.SendDeadLetter")
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.er.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
