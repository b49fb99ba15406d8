package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		S3              S3
		OutboxRelay     OutboxRelay
		Kafka           Kafka
		KafkaController KafkaController
		Job             Job
		Retry           Retry
		QC              QC
		Swagger         Swagger
	}

	HTTP struct {
		Port           string        `env:"HTTP_PORT,required"`
		UsePreforkMode bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		BodyLimit      int           `env:"HTTP_BODY_LIMIT" envDefault:"12582912"`
		ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT,required"`
		AccessKey      string        `env:"S3_ACCESS_KEY,required"`
		SecretKey      string        `env:"S3_SECRET_KEY,required"`
		Bucket         string        `env:"S3_BUCKET,required"`
		Region         string        `env:"S3_REGION" envDefault:"garage"`
		PublicURL      string        `env:"S3_PUBLIC_URL"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Kafka struct {
		Brokers           []string      `env:"KAFKA_BROKERS,required"`
		GroupID           string        `env:"KAFKA_GROUP_ID,required"`
		Topic             string        `env:"KAFKA_TOPIC,required"`
		DeadLetterTopic   string        `env:"KAFKA_DEAD_LETTER_TOPIC"` // empty disables the DLQ
		CreateTopics      bool          `env:"KAFKA_CREATE_TOPICS" envDefault:"false"`
		Partitions        int           `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
		ReplicationFactor int           `env:"KAFKA_TOPIC_REPLICATION_FACTOR" envDefault:"1"`
		BatchTimeout      time.Duration `env:"KAFKA_PRODUCER_BATCH_TIMEOUT" envDefault:"50ms"`
		StartFromLatest   bool          `env:"KAFKA_CONSUMER_START_FROM_LATEST" envDefault:"false"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		StaleInterval       time.Duration `env:"OUTBOX_RELAY_STALE_INTERVAL" envDefault:"1m"`
		StaleAfter          time.Duration `env:"OUTBOX_RELAY_STALE_AFTER" envDefault:"5m"` // claim age before a processing row goes back to pending
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		Retention           time.Duration `env:"OUTBOX_RELAY_RETENTION" envDefault:"168h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	KafkaController struct {
		CommitTimeout   time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"60s"` // one job attempt: fetch, analysis, persist
		ShutdownTimeout time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"KAFKA_CONTROLLER_WORKERS"` // 0 means runtime.NumCPU()
	}

	// Job is the queue-level retry policy of process_photo.
	Job struct {
		Name       string        `env:"JOB_NAME" envDefault:"process_photo"`
		MaxRetries int           `env:"JOB_MAX_RETRIES" envDefault:"5"`
		Backoff    time.Duration `env:"JOB_BACKOFF" envDefault:"2s"`
	}

	// Retry applies to each I/O call inside a job.
	Retry struct {
		MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
		BaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"500ms"`
	}

	QC struct {
		BlurThreshold    float64       `env:"QC_BLUR_THRESHOLD" envDefault:"30"`
		BrightnessMin    float64       `env:"QC_BRIGHTNESS_MIN" envDefault:"40"`
		BrightnessMax    float64       `env:"QC_BRIGHTNESS_MAX" envDefault:"220"`
		GlareThreshold   float64       `env:"QC_GLARE_THRESHOLD" envDefault:"70"`
		FreshnessWindow  time.Duration `env:"QC_FRESHNESS_WINDOW" envDefault:"30m"`
		GeofenceRadiusKM float64       `env:"QC_GEOFENCE_RADIUS_KM" envDefault:"0.5"`
		NormalizeMaxSize int           `env:"QC_NORMALIZE_MAX_SIZE" envDefault:"1600"`
		NormalizeQuality int           `env:"QC_NORMALIZE_JPEG_QUALITY" envDefault:"80"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
