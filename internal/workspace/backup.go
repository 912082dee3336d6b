package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/maraichr/sqlgrid/internal/config"
)

// Backups keeps the pre-save content of every overwritten document in a
// MinIO bucket, keyed by path and content hash, so a bad save is always
// recoverable.
type Backups struct {
	mc     *minio.Client
	bucket string
}

func NewBackups(cfg config.MinIOConfig) (*Backups, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Backups{mc: mc, bucket: cfg.Bucket}, nil
}

func (b *Backups) EnsureBucket(ctx context.Context) error {
	exists, err := b.mc.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := b.mc.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Put stores one document snapshot under <path>/<hash>.sql. Uploading
// the same content twice is a no-op by construction of the key.
func (b *Backups) Put(ctx context.Context, relpath, hash string, content []byte) error {
	objectName := path.Join(path.Clean(relpath), hash+".sql")
	_, err := b.mc.PutObject(ctx, b.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	return nil
}

// Get retrieves one stored snapshot.
func (b *Backups) Get(ctx context.Context, relpath, hash string) (io.ReadCloser, error) {
	objectName := path.Join(path.Clean(relpath), hash+".sql")
	obj, err := b.mc.GetObject(ctx, b.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download backup: %w", err)
	}
	return obj, nil
}

func (b *Backups) Bucket() string { return b.bucket }
