package letters

import (
	"context"
	"errors"
	"testing"

	"github.com/eletters/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAssetURLsEmptyForAssetlessLetter(t *testing.T) {
	env := newTestEnv()

	letter := &models.Letter{ID: "letter-1", SenderID: senderID, RecipientID: recipientID, Body: "No assets"}

	urls := env.service.ResolveAssetURLs(context.Background(), letter)

	require.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestResolveAssetURLsSignsEveryAsset(t *testing.T) {
	env := newTestEnv()
	env.blobs.SeedObject(attachmentsBucket, senderID+"/a.jpg", []byte("jpeg"))
	env.blobs.SeedObject(attachmentsBucket, senderID+"/b.pdf", []byte("pdf"))
	env.blobs.SeedObject(voiceBucket, senderID+"/clip.wav", []byte("wav"))

	letter := &models.Letter{
		SenderID:    senderID,
		RecipientID: recipientID,
		Attachments: []models.Attachment{
			{Name: "a.jpg", Path: senderID + "/a.jpg", Type: "image/jpeg"},
			{Name: "b.pdf", Path: senderID + "/b.pdf", Type: "application/pdf"},
		},
		VoicePath: senderID + "/clip.wav",
	}

	urls := env.service.ResolveAssetURLs(context.Background(), letter)

	require.Len(t, urls, 3)
	assert.Contains(t, urls[senderID+"/a.jpg"], attachmentsBucket)
	assert.Contains(t, urls[senderID+"/b.pdf"], attachmentsBucket)
	assert.Contains(t, urls[senderID+"/clip.wav"], voiceBucket)
}

func TestResolveAssetURLsTTL(t *testing.T) {
	env := newTestEnv()
	env.blobs.SeedObject(attachmentsBucket, senderID+"/a.jpg", []byte("jpeg"))

	letter := &models.Letter{
		SenderID:    senderID,
		RecipientID: recipientID,
		Attachments: []models.Attachment{{Name: "a.jpg", Path: senderID + "/a.jpg"}},
	}

	urls := env.service.ResolveAssetURLs(context.Background(), letter)

	require.Len(t, urls, 1)
	assert.Contains(t, urls[senderID+"/a.jpg"], "expires=3600")
}

func TestResolveAssetURLsOmitsFailedAsset(t *testing.T) {
	env := newTestEnv()
	env.blobs.SeedObject(attachmentsBucket, senderID+"/good.jpg", []byte("jpeg"))
	env.blobs.SeedObject(attachmentsBucket, senderID+"/bad.pdf", []byte("pdf"))
	env.blobs.SignErr = func(bucket, key string) error {
		if key == senderID+"/bad.pdf" {
			return errors.New("signing backend down")
		}
		return nil
	}

	letter := &models.Letter{
		SenderID:    senderID,
		RecipientID: recipientID,
		Attachments: []models.Attachment{
			{Name: "good.jpg", Path: senderID + "/good.jpg"},
			{Name: "bad.pdf", Path: senderID + "/bad.pdf"},
		},
	}

	urls := env.service.ResolveAssetURLs(context.Background(), letter)

	require.Len(t, urls, 1, "a failed asset degrades alone, the rest still resolve")
	assert.Contains(t, urls, senderID+"/good.jpg")
	assert.NotContains(t, urls, senderID+"/bad.pdf")
}
