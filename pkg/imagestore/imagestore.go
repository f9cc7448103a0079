package imagestore

import (
	"context"
	"io"
)

// UploadResult identifies a stored image. PublicID is the host-side object
// path and is what delete operations key on.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store is the external image-hosting collaborator. Offer images live under
// the "offers/<offer-id>" folder, avatars under "users/<user-id>", so a
// prefix delete removes everything attached to one resource.
type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (UploadResult, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
	DeleteFolder(ctx context.Context, folder string) error
}
