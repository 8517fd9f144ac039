package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioClient defines the subset of minio.Client used by minioSink.
type minioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioSink uploads signed documents to a MinIO bucket.
type minioSink struct {
	bucket string
	prefix string
	client minioClient
}

func newMinIOSink(ctx context.Context, cfg Config) (Sink, error) {
	endpoint := strings.TrimSpace(cfg.MinIOEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("minio sink requires an endpoint")
	}
	bucket := strings.TrimSpace(cfg.MinIOBucket)
	if bucket == "" {
		return nil, fmt.Errorf("minio sink requires a bucket")
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return &minioSink{bucket: bucket, prefix: cfg.MinIOPrefix, client: mc}, nil
}

func (m *minioSink) Type() string { return TypeMinIO }

func (m *minioSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	key, err := objectKey(m.prefix, name)
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType(key)})
	if err != nil {
		return "", fmt.Errorf("minio put object %s: %w", key, err)
	}
	return fmt.Sprintf("minio://%s/%s", m.bucket, key), nil
}
