// Package storage publishes finished exports and rendered scenes to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"animatic/config"
)

// ErrUploadFailed marks a failed publish of a finished file.
var ErrUploadFailed = errors.New("upload failed")

// s3API is the slice of the SDK client the uploader uses; tests substitute a
// fake.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Uploader publishes local files to one bucket under a fixed key prefix.
type Uploader struct {
	client s3API
	logger zerolog.Logger

	bucket       string
	region       string
	prefix       string
	usePathStyle bool
}

// NewUploader builds an Uploader from the server settings, using the standard
// AWS config/credential chain.
func NewUploader(ctx context.Context, logger zerolog.Logger, cfg config.Settings) (*Uploader, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is not configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &Uploader{
		client:       client,
		logger:       logger.With().Str("component", "storage").Logger(),
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		prefix:       cfg.S3Prefix,
		usePathStyle: cfg.S3UsePathStyle,
	}, nil
}

// UploadFile publishes the file at localPath under key and returns the public
// object URL. The body streams from disk.
func (u *Uploader) UploadFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	fullKey := u.objectKey(key)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(fullKey),
		Body:   f,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	u.logger.Info().Str("key", fullKey).Str("file", localPath).Msg("uploading")

	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUploadFailed, fullKey, err)
	}
	return u.ObjectURL(fullKey), nil
}

// Exists reports whether an object is already present at key. A 404 is a
// clean false, anything else is an error.
func (u *Uploader) Exists(ctx context.Context, key string) (bool, error) {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(u.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// objectKey joins the configured prefix with key, tolerating callers that
// already include it.
func (u *Uploader) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if u.prefix == "" || strings.HasPrefix(key, u.prefix+"/") {
		return key
	}
	return path.Join(u.prefix, key)
}

// ObjectURL returns the public URL for a full object key.
func (u *Uploader) ObjectURL(fullKey string) string {
	if u.usePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", u.region, u.bucket, fullKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, fullKey)
}
