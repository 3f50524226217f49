// Package archive keeps a copy of every uploaded import file in an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"alumni/internal/config"
)

// Archiver stores uploaded files.
type Archiver interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Nop discards uploads. It is used when no archive endpoint is configured.
type Nop struct{}

func (Nop) Put(context.Context, string, []byte) error { return nil }

// MinIO archives files into a single bucket.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a MinIO client from the archive config.
func NewMinIO(cfg config.Archive) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &MinIO{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", m.bucket, err)
		}
	}
	return nil
}

// Put uploads data under key.
func (m *MinIO) Put(ctx context.Context, key string, data []byte) error {
	opts := minio.PutObjectOptions{ContentType: "text/csv; charset=utf-8"}
	if _, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ObjectKey builds the archive key for an upload: imports/<yyyy>/<mm>/<dd>/<session>-<file>.
func ObjectKey(sessionID, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload.csv"
	}
	return path.Join("imports", at.UTC().Format("2006/01/02"), sessionID+"-"+name)
}

// New returns a MinIO archiver when cfg is enabled and Nop otherwise.
func New(ctx context.Context, cfg config.Archive) (Archiver, error) {
	if !cfg.Enabled() {
		return Nop{}, nil
	}
	m, err := NewMinIO(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
