package infrastructure

import (
	"context"
	"image"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/segmentio/kafka-go"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}

	DeadLetterSender interface {
		SendDeadLetter(ctx context.Context, msg kafka.Message, cause error) error
	}

	EventsReader interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	MetadataExtractor interface {
		Extract(src bytesource.Source) entity.Metadata
	}

	ImageProcessor interface {
		Decode(data []byte) (image.Image, error)
		Optimize(img image.Image) ([]byte, error)
	}

	QualityAnalyzer interface {
		Analyze(img image.Image) entity.QualityReport
		UndecodableReport(cause error) entity.QualityReport
	}
)
