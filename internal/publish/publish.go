// Package publish uploads the regenerated site to S3-compatible object
// storage. Only objects whose content changed since the last publish are
// uploaded, mirroring the original deploy step's publish-only-on-change
// behavior.
package publish

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Publisher pushes site files to a bucket, skipping unchanged content.
// The hash cache is memory-only: a restart republishes everything once,
// which is harmless.
type Publisher struct {
	mu        sync.Mutex
	cfg       Config
	client    s3Client
	hashes    map[string][sha256.Size]byte
	retryBase time.Duration
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Publisher {
	p := &Publisher{
		cfg:       cfg,
		hashes:    make(map[string][sha256.Size]byte),
		retryBase: 500 * time.Millisecond,
		logger:    logger,
	}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		p.client = newS3Client(cfg)
	}
	return p
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Configured returns true if bucket credentials are set.
func (p *Publisher) Configured() bool {
	return p.client != nil
}

// Publish uploads every changed .html file under dir. Unconfigured
// publishers are a silent no-op so the pipeline runs unchanged in local
// setups. Per-file failures are collected; failed files stay dirty and go
// out on the next publish.
func (p *Publisher) Publish(ctx context.Context, dir string) error {
	if !p.Configured() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read site dir: %w", err)
	}

	var errs error
	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" {
			continue
		}
		changed, err := p.uploadIfChanged(ctx, dir, entry)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if changed {
			uploaded++
		}
	}

	if uploaded > 0 {
		p.logger.Info("published site", "dir", dir, "uploaded", uploaded)
	}
	return errs
}

func (p *Publisher) uploadIfChanged(ctx context.Context, dir string, entry fs.DirEntry) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", entry.Name(), err)
	}

	sum := sha256.Sum256(data)
	if prev, ok := p.hashes[entry.Name()]; ok && prev == sum {
		return false, nil
	}

	key := path.Join(p.cfg.Prefix, entry.Name())
	backoff := retry.WithMaxRetries(3, retry.NewExponential(p.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.cfg.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("text/html; charset=utf-8"),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("upload %s: %w", key, err)
	}

	p.hashes[entry.Name()] = sum
	return true, nil
}
