package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
)

// minioAPI is the part of *minio.Client the storage uses.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (minioAPI, error) {
	return minio.New(endpoint, opts)
}

// MinioStorage stores objects through minio-go.
type MinioStorage struct {
	client  minioAPI
	bucket  string
	region  string
	baseURL string
	logger  logging.Logger
}

// NewMinioStorage connects to cfg.Endpoint, which may be given as a URL or a
// bare host:port, and creates the bucket if it is missing.
func NewMinioStorage(ctx context.Context, cfg Config, logger logging.Logger) (*MinioStorage, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := newMinioClient(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure || cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	s := newMinioStorage(client, cfg, logger)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newMinioStorage(client minioAPI, cfg Config, logger logging.Logger) *MinioStorage {
	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}
	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: base,
		logger:  logger.With("module", "storage", "backend", BackendMinio),
	}
}

func splitEndpoint(endpoint string) (string, bool, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		if endpoint == "" {
			return "", false, fmt.Errorf("minio endpoint is empty")
		}
		return endpoint, false, nil
	}
	return u.Host, u.Scheme == "https", nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	s.logger.Info(ctx, "creating bucket", "bucket", s.bucket)
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error(ctx, "upload failed", "key", key, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorUploadFailed, err)
	}
	s.logger.Debug(ctx, "uploaded", "key", key, "size", info.Size, "etag", info.ETag)
	return nil
}

func (s *MinioStorage) PublicURL(key string) string {
	return PublicURL(s.baseURL, s.bucket, key)
}
