package letters

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the slice of the object store the letter pipeline needs.
// Implemented by storage.S3Store in production.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Uploader stores single assets in a bucket under the owner's namespace.
type Uploader struct {
	blobs BlobStore
}

func NewUploader(blobs BlobStore) *Uploader {
	return &Uploader{blobs: blobs}
}

// Upload writes one asset and returns its storage path. The path is scoped
// to the owner and carries a random suffix, so two uploads in the same
// millisecond cannot collide.
func (u *Uploader) Upload(ctx context.Context, ownerID, bucket string, f File) (string, error) {
	key := storageKey(ownerID, f.Name)

	if err := u.blobs.Put(ctx, bucket, key, f.Content, f.ContentType); err != nil {
		return "", fmt.Errorf("upload of %q failed: %w", f.Name, err)
	}

	return key, nil
}

func storageKey(ownerID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%d-%s%s", ownerID, time.Now().UnixMilli(), uuid.NewString(), ext)
}
