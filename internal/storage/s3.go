package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/daehwan2da/sopt-aos-server/pkg/config"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

const defaultContentType = "application/octet-stream"

// objectPutter is the subset of *minio.Client used by S3Uploader.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Uploader stores each file under a fresh UUID key.
type S3Uploader struct {
	client    objectPutter
	bucket    string
	region    string
	urlFormat string
	newKey    func() string
	log       logger.Logger
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader builds a minio client for the configured endpoint.
func NewS3Uploader(cfg config.ObjectStorageConfig, log logger.Logger) (*S3Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return newS3Uploader(client, cfg, log), nil
}

func newS3Uploader(client objectPutter, cfg config.ObjectStorageConfig, log logger.Logger) *S3Uploader {
	if log == nil {
		log = logger.Nop()
	}
	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		urlFormat: cfg.PublicURLFormat,
		newKey:    func() string { return uuid.New().String() },
		log:       log.WithFields(logger.String("component", "s3_uploader")),
	}
}

// Upload streams file to the bucket and returns the object's public URL.
func (u *S3Uploader) Upload(ctx context.Context, file File) (string, error) {
	key := u.newKey()

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	info, err := u.client.PutObject(ctx, u.bucket, key, file.Reader, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		u.log.WithContext(ctx).Error("put object failed",
			logger.String("bucket", u.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("%w: put %s: %w", ErrUploadFailed, key, err)
	}

	u.log.WithContext(ctx).Debug("object uploaded",
		logger.String("key", key),
		logger.Int64("size", info.Size),
	)
	return u.PublicURL(key), nil
}

// PublicURL returns the browser-reachable URL for key.
func (u *S3Uploader) PublicURL(key string) string {
	return fmt.Sprintf(u.urlFormat, u.bucket, u.region, key)
}
