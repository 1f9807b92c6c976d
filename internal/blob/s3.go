// Package blob implements files.BlobStore on S3-compatible object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
)

// MaxPresignTTL is the longest expiry SigV4 accepts for a presigned URL.
const MaxPresignTTL = 7 * 24 * time.Hour

// Config locates the bucket and the credentials to reach it.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// API is the subset of *s3.Client the store calls.
type API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the store calls.
type Presigner interface {
	PresignGetObject(
		ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

// S3Store keeps file bytes in a private bucket and hands out presigned GET URLs.
type S3Store struct {
	api     API
	presign Presigner
	bucket  string
	region  string
	ready   atomic.Bool
}

// NewS3Store builds a path-style client with static credentials.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}

		o.UsePathStyle = true
	})

	return NewS3StoreWithClient(client, s3.NewPresignClient(client), cfg.Bucket, cfg.Region), nil
}

// NewS3StoreWithClient wires an existing client pair.
func NewS3StoreWithClient(api API, presign Presigner, bucket, region string) *S3Store {
	return &S3Store{api: api, presign: presign, bucket: bucket, region: region}
}

// EnsureBucket creates the bucket on first use. A successful check is cached.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		s.ready.Store(true)
		return nil
	}

	if !isNotFound(err) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	in := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.api.CreateBucket(ctx, in); err != nil && !hasCode(err, "BucketAlreadyOwnedByYou") {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}

	s.ready.Store(true)

	return nil
}

// Put uploads without overwriting. An existing object yields sharing.ErrBlobExists.
func (s *S3Store) Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if hasCode(err, "PreconditionFailed") {
			return sharing.ErrBlobExists
		}

		return fmt.Errorf("put object %s: %w", path, err)
	}

	return nil
}

// SignURL presigns a GET for path. ttl is clamped to MaxPresignTTL.
func (s *S3Store) SignURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ClampTTL(ttl)))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}

	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}

	return nil
}

// ClampTTL bounds a presign expiry to (0, MaxPresignTTL].
func ClampTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl <= 0:
		return time.Minute
	case ttl > MaxPresignTTL:
		return MaxPresignTTL
	default:
		return ttl
	}
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	return hasCode(err, "NotFound") || hasCode(err, "NoSuchBucket")
}

func hasCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}

var _ files.BlobStore = (*S3Store)(nil)
