package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCS implements Store on top of a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{client: client, bucket: bucket}
}

func (g *GCS) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (UploadResult, error) {
	if g.client == nil || g.bucket == "" {
		return UploadResult{}, errors.New("image store not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))

	wc := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return UploadResult{}, err
	}
	if err := wc.Close(); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: g.publicURL(objectPath), PublicID: objectPath}, nil
}

// DeleteByPrefix removes every object under prefix. Missing objects are not
// an error; the caller may retry after a partial failure.
func (g *GCS) DeleteByPrefix(ctx context.Context, prefix string) error {
	if g.client == nil || g.bucket == "" {
		return nil
	}
	bkt := g.client.Bucket(g.bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: strings.TrimSuffix(prefix, "/") + "/"})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := bkt.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return err
		}
	}
}

// DeleteFolder removes the zero-byte folder placeholder some tools create.
// GCS has a flat namespace, so after DeleteByPrefix this is usually a no-op.
func (g *GCS) DeleteFolder(ctx context.Context, folder string) error {
	if g.client == nil || g.bucket == "" {
		return nil
	}
	err := g.client.Bucket(g.bucket).Object(strings.TrimSuffix(folder, "/") + "/").Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (g *GCS) publicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectPath)
}

var _ Store = (*GCS)(nil)
