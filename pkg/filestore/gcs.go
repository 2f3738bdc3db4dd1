package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores uploads in a Google Cloud Storage bucket. Selected when
// GCS_BUCKET is configured; otherwise the disk store is used.
type GCS struct {
	Client   *storage.Client
	Bucket   string
	MaxBytes int64
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCS(client *storage.Client, bucket string, maxBytes int64) *GCS {
	return &GCS{Client: client, Bucket: bucket, MaxBytes: maxBytes}
}

func (g *GCS) Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if err := CheckImageType(contentType); err != nil {
		return "", err
	}
	name := GenerateName(filename)

	wc := g.Client.Bucket(g.Bucket).Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files

	n, err := io.Copy(wc, io.LimitReader(r, g.MaxBytes+1))
	if err != nil {
		_ = wc.Close()
		return "", err
	}
	if n > g.MaxBytes {
		_ = wc.Close()
		_ = g.Client.Bucket(g.Bucket).Object(name).Delete(ctx)
		return "", ErrTooLarge
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (g *GCS) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	err := g.Client.Bucket(g.Bucket).Object(ref).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (g *GCS) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.Bucket, ref)
}

var _ Store = (*GCS)(nil)
