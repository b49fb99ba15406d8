package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	for k, v := range map[string]string{
		"HTTP_PORT":      "8080",
		"LOG_LEVEL":      "debug",
		"PG_POOL_MAX":    "4",
		"PG_URL":         "postgres://qc:qc@localhost:5432/qc",
		"S3_ENDPOINT":    "http://localhost:3900",
		"S3_ACCESS_KEY":  "key",
		"S3_SECRET_KEY":  "secret",
		"S3_BUCKET":      "photos",
		"KAFKA_BROKERS":  "k1:9092,k2:9092",
		"KAFKA_GROUP_ID": "photo-qc",
		"KAFKA_TOPIC":    "photos.qc",
	} {
		t.Setenv(k, v)
	}
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Kafka.DeadLetterTopic)

	assert.Equal(t, "process_photo", cfg.Job.Name)
	assert.Equal(t, 5, cfg.Job.MaxRetries)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)

	assert.InDelta(t, 30.0, cfg.QC.BlurThreshold, 1e-9)
	assert.InDelta(t, 40.0, cfg.QC.BrightnessMin, 1e-9)
	assert.InDelta(t, 220.0, cfg.QC.BrightnessMax, 1e-9)
	assert.InDelta(t, 70.0, cfg.QC.GlareThreshold, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.QC.FreshnessWindow)
	assert.InDelta(t, 0.5, cfg.QC.GeofenceRadiusKM, 1e-9)
	assert.Equal(t, 7*24*time.Hour, cfg.OutboxRelay.Retention)
	assert.Equal(t, 5*time.Minute, cfg.OutboxRelay.StaleAfter)
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QC_GEOFENCE_RADIUS_KM", "1.25")
	t.Setenv("JOB_BACKOFF", "10s")
	t.Setenv("KAFKA_DEAD_LETTER_TOPIC", "photos.qc.dlq")

	cfg, err := New()
	require.NoError(t, err)

	assert.InDelta(t, 1.25, cfg.QC.GeofenceRadiusKM, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Job.Backoff)
	assert.Equal(t, "photos.qc.dlq", cfg.Kafka.DeadLetterTopic)
}

func TestNew_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("PG_URL", "")
	require.NoError(t, os.Unsetenv("PG_URL"))

	_, err := New()
	assert.Error(t, err)
}
