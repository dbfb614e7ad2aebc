package letters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eletters/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploaderKeyScheme(t *testing.T) {
	blobs := testutil.NewMemBlobStore()
	uploader := NewUploader(blobs)
	ctx := context.Background()

	path, err := uploader.Upload(ctx, "owner-1", "letters-attachments", File{
		Name:        "Holiday Photo.JPG",
		ContentType: "image/jpeg",
		Size:        4,
		Content:     strings.NewReader("data"),
	})
	require.NoError(t, err)

	// Owner-scoped namespace, lowercased extension preserved.
	assert.True(t, strings.HasPrefix(path, "owner-1/"), "path %q should be scoped to the owner", path)
	assert.True(t, strings.HasSuffix(path, ".jpg"), "path %q should keep the file extension", path)

	content, ok := blobs.Object("letters-attachments", path)
	require.True(t, ok, "object should be stored under the returned path")
	assert.Equal(t, []byte("data"), content)
}

func TestUploaderKeysDoNotCollide(t *testing.T) {
	blobs := testutil.NewMemBlobStore()
	uploader := NewUploader(blobs)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		path, err := uploader.Upload(ctx, "owner-1", "letters-attachments", File{
			Name:        "same-name.png",
			ContentType: "image/png",
			Size:        1,
			Content:     strings.NewReader("x"),
		})
		require.NoError(t, err)
		assert.False(t, seen[path], "path %q was produced twice", path)
		seen[path] = true
	}
}

func TestUploaderPropagatesWriteFailure(t *testing.T) {
	writeErr := errors.New("bucket quota exceeded")

	blobs := testutil.NewMemBlobStore()
	blobs.PutErr = func(bucket, key string, body []byte) error {
		return writeErr
	}

	uploader := NewUploader(blobs)

	_, err := uploader.Upload(context.Background(), "owner-1", "letters-attachments", File{
		Name:        "doc.pdf",
		ContentType: "application/pdf",
		Size:        3,
		Content:     strings.NewReader("pdf"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, 0, blobs.Len())
}
