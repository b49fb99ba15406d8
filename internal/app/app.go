package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/andreyxaxa/Photo-QC/config"
	kafkactrl "github.com/andreyxaxa/Photo-QC/internal/controller/kafka"
	"github.com/andreyxaxa/Photo-QC/internal/controller/restapi"
	"github.com/andreyxaxa/Photo-QC/internal/controller/worker/outbox"
	infrakafka "github.com/andreyxaxa/Photo-QC/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/metadata"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/quality"
	"github.com/andreyxaxa/Photo-QC/internal/repo/persistent"
	"github.com/andreyxaxa/Photo-QC/internal/usecase/photo"
	"github.com/andreyxaxa/Photo-QC/internal/usecase/photoqc"
	"github.com/andreyxaxa/Photo-QC/pkg/httpserver"
	"github.com/andreyxaxa/Photo-QC/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-QC/pkg/kafka/producer"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/postgres"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/andreyxaxa/Photo-QC/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, l, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey,
		s3client.Region(cfg.S3.Region),
		s3client.PublicURL(cfg.S3.PublicURL),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	photoStorage := persistent.NewPhotoStorage(s3c, cfg.S3.Bucket)
	photoRepo := persistent.NewPhotoRepo(pg)

	// Use-Case

	// intake use-case, also serves the outbox relay
	photoUseCase := photo.New(
		photoStorage,
		photoRepo,
		persistent.NewPhotoOutboxRepo(pg),
		pg,
		l,
	)

	// QC use-case
	photoQCUseCase := photoqc.New(
		photoRepo,
		persistent.NewPropertyRepo(pg),
		photoStorage,
		pg,
		metadata.NewExtractor(),
		processor.New(
			processor.MaxSize(cfg.QC.NormalizeMaxSize, cfg.QC.NormalizeMaxSize),
			processor.JPEGQuality(cfg.QC.NormalizeQuality),
		),
		quality.New(quality.WithThresholds(quality.Thresholds{
			Blur:          cfg.QC.BlurThreshold,
			BrightnessMin: cfg.QC.BrightnessMin,
			BrightnessMax: cfg.QC.BrightnessMax,
			Glare:         cfg.QC.GlareThreshold,
		})),
		photoqc.NewValidator(
			photoqc.FreshnessWindow(cfg.QC.FreshnessWindow),
			photoqc.GeofenceRadiusKM(cfg.QC.GeofenceRadiusKM),
		),
		retry.New(l, retry.MaxAttempts(cfg.Retry.MaxAttempts), retry.BaseDelay(cfg.Retry.BaseDelay)),
		l,
	)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, l, cfg.Kafka.Brokers, producer.BatchTimeout(cfg.Kafka.BatchTimeout))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}
	if cfg.Kafka.CreateTopics {
		err = kafkaProducer.EnsureTopics(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor,
			cfg.Kafka.Topic, cfg.Kafka.DeadLetterTopic)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - kafkaProducer.EnsureTopics: %w", err))
		}
	}
	eventProducer := infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.Topic, cfg.Kafka.DeadLetterTopic)

	// Outbox Relay Worker
	outboxRelayWorker := outbox.New(
		photoUseCase,
		eventProducer,
		l,
		cfg.OutboxRelay.PollInterval,
		cfg.OutboxRelay.CleanupInterval,
		cfg.OutboxRelay.Retention,
		cfg.OutboxRelay.MarkFailedInterval,
		cfg.OutboxRelay.StaleInterval,
		cfg.OutboxRelay.StaleAfter,
		cfg.OutboxRelay.ProcessBatchTimeout,
		cfg.OutboxRelay.BatchSize,
		cfg.OutboxRelay.MaxRetries,
	)

	// Kafka Consumer
	var consumerOpts []consumer.Option
	if cfg.Kafka.StartFromLatest {
		consumerOpts = append(consumerOpts, consumer.StartFromLatest())
	}
	kafkaConsumer, err := consumer.New(ctx, l, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, consumerOpts...)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	workers := cfg.KafkaController.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		photoQCUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		eventProducer,
		l,
		kafkactrl.Job{
			Name:       cfg.Job.Name,
			MaxRetries: cfg.Job.MaxRetries,
			Backoff:    cfg.Job.Backoff,
		},
		cfg.KafkaController.CommitTimeout,
		cfg.KafkaController.ProcessTimeout,
		workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(cfg.HTTP.BodyLimit),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
	)
	restapi.NewRouter(httpServer.App, cfg, photoUseCase, l)

	// Start Components
	err = outboxRelayWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	// controller first: it still writes to the dead letter topic through the shared producer
	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}

	orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
	defer orlShutdownCancel()
	err = outboxRelayWorker.Shutdown(orlShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
	}
}
