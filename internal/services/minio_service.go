package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pdfContentType = "application/pdf"

// DocumentStorage keeps copies of generated sheets in an object store.
type DocumentStorage interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
	EnsureBucketExists(ctx context.Context) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (DocumentStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket}, nil
}

// ReportObjectName is where the sheet of a saved report is stored.
func ReportObjectName(id int64, filename string) string {
	return fmt.Sprintf("%s%s", ReportObjectPrefix(id), filename)
}

func ReportObjectPrefix(id int64) string {
	return fmt.Sprintf("reports/%d/", id)
}

func (m *minioStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return m.removeWhere(ctx, prefix, matchAll)
}

// PurgeOlderThan removes objects under prefix last modified before cutoff.
func (m *minioStorage) PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error) {
	return m.removeWhere(ctx, prefix, olderThan(cutoff))
}

func matchAll(minio.ObjectInfo) bool { return true }

// olderThan matches objects modified strictly before cutoff.
func olderThan(cutoff time.Time) func(minio.ObjectInfo) bool {
	return func(obj minio.ObjectInfo) bool {
		return obj.LastModified.Before(cutoff)
	}
}

func (m *minioStorage) removeWhere(ctx context.Context, prefix string, match func(minio.ObjectInfo) bool) (int, error) {
	removed := 0
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return removed, obj.Err
		}
		if !match(obj) {
			continue
		}
		if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
