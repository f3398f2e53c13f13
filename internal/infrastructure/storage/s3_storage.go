// Package storage provides object storage implementations for the PDF
// artifacts and signature images the invoice pipeline reads and writes.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cabinet/backend/internal/application/invoicing"
	infraconfig "github.com/cabinet/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned by Download when no object exists under the
// requested key.
var ErrObjectNotFound = errors.New("object not found")

// Ensure S3ObjectStorage implements the pipeline's ObjectStorage port
var _ invoicing.ObjectStorage = (*S3ObjectStorage)(nil)

// s3API is the slice of the S3 client the storage uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// presignAPI generates presigned GET URLs.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4Request, error)
}

// v4Request mirrors the fields of the SDK's signed request the storage
// consumes, so presigning can be faked in tests.
type v4Request struct {
	URL string
}

// sdkPresignClient adapts *s3.PresignClient to presignAPI.
type sdkPresignClient struct {
	client *s3.PresignClient
}

func (p *sdkPresignClient) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4Request, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &v4Request{URL: req.URL}, nil
}

// S3ObjectStorage implements the ObjectStorage port using AWS S3 SDK v2.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3ObjectStorage struct {
	client            s3API
	presignClient     presignAPI
	bucket            string
	region            string
	endpoint          string // empty = real AWS S3
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ObjectStorageOption is a functional option for configuring S3ObjectStorage
type S3ObjectStorageOption func(*S3ObjectStorage)

// WithLogger sets a custom logger for S3ObjectStorage
func WithLogger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) {
		s.logger = logger
	}
}

// WithClient overrides the S3 client, mainly for tests
func WithClient(client s3API, presign presignAPI) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) {
		s.client = client
		s.presignClient = presign
	}
}

// NewS3ObjectStorage creates an object storage from configuration. With no
// endpoint configured it talks to AWS S3 directly; a custom endpoint selects
// any S3-compatible backend. Static credentials are used when present,
// otherwise the default AWS credential chain applies.
func NewS3ObjectStorage(cfg *infraconfig.StorageConfig, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	storage := &S3ObjectStorage{
		bucket:            cfg.Bucket,
		region:            cfg.Region,
		endpoint:          endpoint,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}

	for _, opt := range opts {
		opt(storage)
	}

	if storage.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		if cfg.AccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.UsePathStyle
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
		storage.client = client
		storage.presignClient = &sdkPresignClient{client: s3.NewPresignClient(client)}
	}

	if storage.presignExpiration == 0 {
		storage.presignExpiration = time.Hour
	}

	return storage, nil
}

// Upload writes an object under key, overwriting any prior object.
func (s *S3ObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType, contentDisposition string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if contentDisposition != "" {
		input.ContentDisposition = aws.String(contentDisposition)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("object uploaded",
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}

// Download returns the object bytes and recorded content type. Absent keys
// yield ErrObjectNotFound.
func (s *S3ObjectStorage) Download(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", errors.New("storage key is required")
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to download object: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object body: %w", err)
	}

	contentType := ""
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	return data, contentType, nil
}

// ObjectExists checks if an object exists in storage.
func (s *S3ObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// GenerateDownloadURL generates a presigned GET URL that triggers an
// attachment download of the given filename.
func (s *S3ObjectStorage) GenerateDownloadURL(ctx context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = s.presignExpiration
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, input, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return presignReq.URL, time.Now().Add(expiresIn), nil
}

// ObjectURL returns the deterministic reference URL for an object key. No
// signing, no expiry; the same key always maps to the same URL.
func (s *S3ObjectStorage) ObjectURL(key string) string {
	if s.endpoint == "" {
		return "https://" + s.bucket + ".s3.amazonaws.com/" + key
	}
	return strings.TrimSuffix(s.endpoint, "/") + "/" + s.bucket + "/" + key
}

// GetBucket returns the bucket name
func (s *S3ObjectStorage) GetBucket() string {
	return s.bucket
}

// isNotFoundErr reports whether an S3 error means the object is absent.
// Some S3-compatible services surface this as a bare "NotFound" API code
// rather than a typed error.
func isNotFoundErr(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
