// Package artifacts uploads suite results (traces, videos, screenshots,
// visual diffs) to S3 compatible storage.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoBucket is returned when no destination bucket is configured
var ErrNoBucket = errors.New("artifacts: no bucket configured")

// Uploader copies a results directory into a bucket
type Uploader struct {
	client      *s3.Client
	bucket      string
	prefix      string
	concurrency int
	logger      *zap.Logger
}

// Summary reports what an upload wrote
type Summary struct {
	Files int
	Bytes int64
	Keys  []string
}

// New creates an uploader from configuration
func New(ctx context.Context, cfg *config.ArtifactsConfig, logger *zap.Logger) (*Uploader, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("artifacts: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewFromS3Client(client, cfg.Bucket, cfg.Prefix, cfg.Concurrency, logger), nil
}

// NewFromS3Client creates an uploader from an existing S3 client
func NewFromS3Client(client *s3.Client, bucket, prefix string, concurrency int, logger *zap.Logger) *Uploader {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		client:      client,
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Key returns the object key for a path relative to the uploaded directory
func (u *Uploader) Key(rel string) string {
	rel = filepath.ToSlash(rel)
	if u.prefix == "" {
		return rel
	}
	return path.Join(u.prefix, rel)
}

// UploadDir uploads every regular file under dir, at most concurrency at a
// time. The first failure cancels the remaining uploads.
func (u *Uploader) UploadDir(ctx context.Context, dir string) (Summary, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("artifacts: failed to walk %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, file := range files {
		g.Go(func() error {
			rel, err := filepath.Rel(dir, file)
			if err != nil {
				return err
			}
			key := u.Key(rel)
			n, err := u.put(ctx, key, file)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.Files++
			summary.Bytes += n
			summary.Keys = append(summary.Keys, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	sort.Strings(summary.Keys)
	u.logger.Info("artifacts uploaded",
		zap.String("bucket", u.bucket),
		zap.String("prefix", u.prefix),
		zap.Int("files", summary.Files),
		zap.Int64("bytes", summary.Bytes))
	return summary, nil
}

func (u *Uploader) put(ctx context.Context, key, file string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, fmt.Errorf("artifacts: failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("artifacts: failed to stat %s: %w", file, err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType(file)),
	})
	if err != nil {
		return 0, fmt.Errorf("artifacts: failed to put object %q: %w", key, err)
	}
	u.logger.Debug("artifact uploaded", zap.String("key", key), zap.Int64("bytes", info.Size()))
	return info.Size(), nil
}

// ContentType guesses a MIME type from the file extension
func ContentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".zip":
		return "application/zip"
	case ".webm":
		return "video/webm"
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
