// Package storage provides the MinIO-backed object store used for lead
// attachments (documents, screenshots, call recordings). Only attachment
// metadata lives in Postgres; bytes go here.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"leadflow_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL bounds how long a download link stays valid.
const PresignedURLTTL = 15 * time.Minute

type Service struct {
	client      *minio.Client
	maxFileSize int64
}

func New(cfg config.MinIOConfig) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Service{
		client:      client,
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucketExists creates the bucket if it does not exist yet.
func (s *Service) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// Upload stores a file under <folder>/<name>_<uuid8><ext> and returns the
// object key. The UUID suffix prevents overwrites between same-named files.
func (s *Service) Upload(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return "", err
	}
	if err := s.ValidateFileSize(size); err != nil {
		return "", err
	}

	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	objectKey := filepath.ToSlash(filepath.Join(folder, uniqueName))

	_, err := s.client.PutObject(ctx, bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// DownloadURL returns a presigned GET URL for an object key.
func (s *Service) DownloadURL(ctx context.Context, bucket, objectKey string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, bucket, objectKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download for %s: %w", objectKey, err)
	}
	return presigned.String(), nil
}

// Delete removes an object. Missing objects are not an error on the MinIO
// side, which keeps metadata deletion idempotent.
func (s *Service) Delete(ctx context.Context, bucket, objectKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", objectKey, err)
	}
	return nil
}
