// Package workspace holds the optional remote-storage connectors: S3
// sync of the workspace directory and MinIO pre-save backups.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/maraichr/sqlgrid/internal/config"
)

// S3Sync mirrors workspace .sql files against an S3-compatible bucket:
// pull on startup, push on save. Works with both AWS S3 and MinIO.
type S3Sync struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Sync(cfg appconfig.S3Config) (*S3Sync, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &S3Sync{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// SyncDown downloads every .sql object under the configured prefix into
// destRoot, preserving relative paths.
func (c *S3Sync) SyncDown(ctx context.Context, destRoot string) error {
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: &c.bucket,
		Prefix: &c.prefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			if strings.HasSuffix(key, "/") || !strings.HasSuffix(key, ".sql") {
				continue
			}
			rel := strings.TrimPrefix(key, c.prefix)
			rel = strings.TrimPrefix(rel, "/")
			localPath := filepath.Join(destRoot, filepath.FromSlash(rel))
			if err := c.downloadObject(ctx, key, localPath); err != nil {
				return fmt.Errorf("download %s: %w", key, err)
			}
		}
	}

	return nil
}

// PushObject uploads one document's content under the configured prefix.
func (c *S3Sync) PushObject(ctx context.Context, relpath string, content []byte) error {
	key := path.Join(c.prefix, path.Clean(relpath))
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("push %s: %w", key, err)
	}
	return nil
}

func (c *S3Sync) downloadObject(ctx context.Context, key, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}

	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return nil
}
