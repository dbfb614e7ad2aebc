package letters

import (
	"fmt"
	"io"
)

// File is one candidate asset submitted with a letter: an attachment or a
// voice clip. Content is read exactly once, during upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// MaxAssetSize is the ceiling for any single asset.
const MaxAssetSize = 10 << 20 // 10 MiB

// RejectReason says why a candidate file was excluded from a letter.
type RejectReason string

const (
	RejectUnsupportedType RejectReason = "unsupported_type"
	RejectTooLarge        RejectReason = "too_large"
)

// ValidationError reports a rejected candidate file. Rejection is never
// fatal to a send; the file is simply excluded from the outgoing batch.
type ValidationError struct {
	Name   string
	Reason RejectReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case RejectTooLarge:
		return fmt.Sprintf("%s exceeds the %d MiB limit", e.Name, MaxAssetSize>>20)
	default:
		return fmt.Sprintf("%s has an unsupported file type", e.Name)
	}
}

var allowedAttachmentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"video/mp4":       {},
	"application/pdf": {},
}

// ValidateAttachment checks a candidate attachment against the type
// allow-list and the size ceiling. It performs no I/O.
func ValidateAttachment(f File) error {
	if _, ok := allowedAttachmentTypes[f.ContentType]; !ok {
		return &ValidationError{Name: f.Name, Reason: RejectUnsupportedType}
	}

	if f.Size > MaxAssetSize {
		return &ValidationError{Name: f.Name, Reason: RejectTooLarge}
	}

	return nil
}

// ValidateVoice checks a voice clip. Voice clips come from the capture
// session rather than arbitrary user files, so only the size ceiling
// applies.
func ValidateVoice(f File) error {
	if f.Size > MaxAssetSize {
		return &ValidationError{Name: f.Name, Reason: RejectTooLarge}
	}

	return nil
}
