package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andreyxaxa/Photo-QC/pkg/s3client"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type PhotoStorage struct {
	*s3client.S3Client
	bucket string
}

func NewPhotoStorage(s3c *s3client.S3Client, bucket string) *PhotoStorage {
	return &PhotoStorage{s3c, bucket}
}

func (r *PhotoStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("PhotoStorage - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

// Store writes data under key, replacing any previous object, and returns its URL.
func (r *PhotoStorage) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("PhotoStorage - Store - r.Client.PutObject: %w", err)
	}

	return r.URL(key), nil
}

func (r *PhotoStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errs.Permanent(fmt.Errorf("PhotoStorage - Fetch - key=%s: %w", key, errs.ErrObjectNotFound))
		}
		return nil, fmt.Errorf("PhotoStorage - Fetch - r.Client.GetObject: %w", err)
	}
	defer result.Body.Close()

	b, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("PhotoStorage - Fetch - io.ReadAll: %w", err)
	}

	return b, nil
}

func (r *PhotoStorage) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("PhotoStorage - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}

func (r *PhotoStorage) URL(key string) string {
	return r.ObjectURL(r.bucket, key)
}

func (r *PhotoStorage) KeyFromURL(url string) (string, bool) {
	prefix := r.URL("")
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}

	return strings.TrimPrefix(url, prefix), true
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey"
	}

	return false
}
