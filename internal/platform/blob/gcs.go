package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBackend keeps blobs as objects in a Cloud Storage bucket.
type GCSBackend struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ Backend = (*GCSBackend)(nil)

// NewGCSBackend connects to bucket. A non-empty endpoint targets an
// emulator without authentication.
func NewGCSBackend(ctx context.Context, bucket, endpoint string) (*GCSBackend, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket cannot be empty")
	}
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSBackend{client: client, bucket: client.Bucket(bucket)}, nil
}

// Put implements Backend.
func (b *GCSBackend) Put(ctx context.Context, name string, data []byte) error {
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Get implements Backend.
func (b *GCSBackend) Get(ctx context.Context, name string) ([]byte, error) {
	r, err := b.bucket.Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// Remove implements Backend.
func (b *GCSBackend) Remove(ctx context.Context, name string) error {
	if err := b.bucket.Object(name).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Close releases the storage client.
func (b *GCSBackend) Close() error {
	return b.client.Close()
}
