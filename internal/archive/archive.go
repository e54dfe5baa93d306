// Package archive stores raw geodata responses in S3-compatible object
// storage for offline inspection. It is write-only from the application's
// point of view: nothing on the query path ever reads an archived payload.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service is a client for S3-compatible storage.
type Service struct {
	client *minio.Client
	bucket string
}

// NewFromEnv connects to the MinIO server using credentials from environment
// variables and returns a Service targeting ARCHIVE_BUCKET.
func NewFromEnv() (*Service, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	bucket := os.Getenv("ARCHIVE_BUCKET")
	if bucket == "" {
		bucket = "heritage-searches"
	}

	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Println("Successfully connected to MinIO endpoint:", endpoint)
	return &Service{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket %q: %w", s.bucket, err)
		}
	}
	return nil
}

// StoreSearch archives one search payload under a date-partitioned key.
// Calling it on a nil Service is a no-op.
func (s *Service) StoreSearch(ctx context.Context, payload any) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal search payload: %w", err)
	}

	key := fmt.Sprintf("raw_data/%s/%s.json", time.Now().UTC().Format("2006-01-02"), uuid.NewString())
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to store object in S3: %w", err)
	}
	return nil
}
