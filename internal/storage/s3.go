// Package storage provides the blob store used for letter assets. Two
// logical buckets exist: one for file attachments and one for voice clips.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/eletters/backend/internal/config"
)

// ErrWrite is returned when the blob store rejects a write (quota,
// connectivity, permission).
var ErrWrite = errors.New("blob store rejected write")

// ErrSign is returned when a signed read URL cannot be generated.
var ErrSign = errors.New("blob store could not sign url")

// S3Store talks to an S3-compatible object store (MinIO in development).
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Store builds an S3 client from the application configuration. The
// endpoint is addressed path-style so that bucket names do not have to
// resolve as DNS subdomains.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// Put writes one object. Each call is independent: a failed sibling upload
// never prevents this one from being attempted.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

// PresignGet returns a time-limited, authorization-bearing URL granting
// read access to one stored object.
func (s *S3Store) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSign, err)
	}

	return req.URL, nil
}
