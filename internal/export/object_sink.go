package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectSinkConfig describes an S3-compatible bucket.
type ObjectSinkConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Prefix is prepended to every object key, e.g. "reports/".
	Prefix string
}

// ObjectSink uploads documents to an S3-compatible bucket.
type ObjectSink struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewObjectSink connects to the bucket and creates it when missing.
func NewObjectSink(ctx context.Context, cfg ObjectSinkConfig) (*ObjectSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &ObjectSink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key of a document name.
func (s *ObjectSink) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Store implements Sink. The returned location is an s3:// URL.
func (s *ObjectSink) Store(ctx context.Context, doc *Document) (string, error) {
	if err := validateName(doc.Name); err != nil {
		return "", err
	}

	key := s.Key(doc.Name)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(doc.Data), int64(len(doc.Data)),
		minio.PutObjectOptions{ContentType: doc.ContentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
