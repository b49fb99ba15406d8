package s3client

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	_defaultConnAttempts = 6
	_defaultConnTimeout  = 500 * time.Millisecond
	_defaultRegion       = "garage"
)

type S3Client struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint     string
	region       string
	accessKey    string
	secretKey    string
	publicURL    string
	usePathStyle bool

	Client *s3.Client
}

func New(ctx context.Context, l logger.Interface, endpoint, accessKey, secretKey string, opts ...Option) (*S3Client, error) {
	s3c := &S3Client{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		region:       _defaultRegion,
		endpoint:     endpoint,
		accessKey:    accessKey,
		secretKey:    secretKey,
		usePathStyle: true,
	}

	for _, opt := range opts {
		opt(s3c)
	}

	connector := retry.New(l, retry.MaxAttempts(s3c.connAttempts), retry.BaseDelay(s3c.connTimeout))

	err := connector.Run(ctx, "S3Client - connect", s3c.connect)
	if err != nil {
		return nil, fmt.Errorf("S3Client - New - connAttempts exhausted: %w", err)
	}

	return s3c, nil
}

// ObjectURL is the address recorded for key. Path style: <base>/<bucket>/<key>.
func (s *S3Client) ObjectURL(bucket, key string) string {
	base := s.publicURL
	if base == "" {
		base = s.endpoint
	}

	if s.usePathStyle {
		return fmt.Sprintf("%s/%s/%s", base, bucket, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}

func (s *S3Client) connect(ctx context.Context) error {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("S3Client - config.LoadDefaultConfig: %w", err)
	}

	s.Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = s.usePathStyle
		o.BaseEndpoint = aws.String(s.endpoint)
	})

	// check connection
	_, err = s.Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("S3Client - s.Client.ListBuckets: %w", err)
	}

	return nil
}
