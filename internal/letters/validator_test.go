package letters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name       string
		file       File
		wantReason RejectReason
	}{
		{
			name: "accepts jpeg",
			file: File{Name: "photo.jpg", ContentType: "image/jpeg", Size: 1024},
		},
		{
			name: "accepts png",
			file: File{Name: "scan.png", ContentType: "image/png", Size: 2048},
		},
		{
			name: "accepts mp4",
			file: File{Name: "clip.mp4", ContentType: "video/mp4", Size: 4096},
		},
		{
			name: "accepts pdf",
			file: File{Name: "doc.pdf", ContentType: "application/pdf", Size: 512},
		},
		{
			name: "accepts file at exactly the size ceiling",
			file: File{Name: "big.png", ContentType: "image/png", Size: MaxAssetSize},
		},
		{
			name:       "rejects unsupported type",
			file:       File{Name: "anim.gif", ContentType: "image/gif", Size: 100},
			wantReason: RejectUnsupportedType,
		},
		{
			name:       "rejects executable",
			file:       File{Name: "tool.exe", ContentType: "application/octet-stream", Size: 100},
			wantReason: RejectUnsupportedType,
		},
		{
			name:       "rejects oversized file",
			file:       File{Name: "huge.jpg", ContentType: "image/jpeg", Size: MaxAssetSize + 1},
			wantReason: RejectTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(tt.file)

			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantReason, validationErr.Reason)
			assert.Equal(t, tt.file.Name, validationErr.Name)
		})
	}
}

func TestValidateVoice(t *testing.T) {
	// Voice clips come from the capture session, so only size applies.
	assert.NoError(t, ValidateVoice(File{Name: "voice-message.wav", ContentType: "audio/wav", Size: 1024}))

	err := ValidateVoice(File{Name: "voice-message.wav", ContentType: "audio/wav", Size: MaxAssetSize + 1})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, RejectTooLarge, validationErr.Reason)
}

func TestValidationErrorMessage(t *testing.T) {
	tooLarge := &ValidationError{Name: "big.mp4", Reason: RejectTooLarge}
	assert.Contains(t, tooLarge.Error(), "big.mp4")
	assert.Contains(t, tooLarge.Error(), "10 MiB")

	unsupported := &ValidationError{Name: "anim.gif", Reason: RejectUnsupportedType}
	assert.Contains(t, unsupported.Error(), "anim.gif")
	assert.Contains(t, unsupported.Error(), "unsupported")

	// Both reasons stay distinguishable for callers.
	assert.False(t, errors.Is(tooLarge, unsupported))
}
