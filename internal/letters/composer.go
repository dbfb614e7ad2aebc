package letters

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/eletters/backend/internal/models"
)

// ComposeRequest carries everything a sender submits for one letter.
type ComposeRequest struct {
	SenderID string

	// RecipientID addresses the letter explicitly. When empty, the legacy
	// two-party fallback picks the only other known participant.
	RecipientID string

	Subject     string
	Body        string
	Mood        models.Mood
	Voice       *File
	Attachments []File
}

// Compose validates the request, uploads the accepted assets, and persists
// one letter referencing whatever subset of them succeeded.
//
// Asset uploads are individually tolerant: a failed attachment or voice
// upload is logged and omitted, never aborting the send. The insert at the
// end is the single atomic step; if it fails, the whole send fails even
// though some assets may already be durably stored.
func (s *Service) Compose(ctx context.Context, req ComposeRequest) (*models.Letter, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	mood := req.Mood
	if mood == "" {
		mood = models.DefaultMood
	}
	if !mood.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}

	recipientID, err := s.resolveRecipient(ctx, req.SenderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	// Invalid candidates are dropped here, before any storage I/O.
	accepted := make([]File, 0, len(req.Attachments))
	for _, f := range req.Attachments {
		if err := ValidateAttachment(f); err != nil {
			log.Printf("Composer: rejecting attachment: %v", err)
			continue
		}
		accepted = append(accepted, f)
	}

	attachments := s.uploadAttachments(ctx, req.SenderID, accepted)

	voicePath := ""
	if req.Voice != nil {
		if err := ValidateVoice(*req.Voice); err != nil {
			log.Printf("Composer: rejecting voice clip: %v", err)
		} else if path, err := s.uploader.Upload(ctx, req.SenderID, s.voiceBucket, *req.Voice); err != nil {
			log.Printf("Composer: voice upload failed, sending without voice clip: %v", err)
		} else {
			voicePath = path
		}
	}

	letter := &models.Letter{
		SenderID:    req.SenderID,
		RecipientID: recipientID,
		Subject:     strings.TrimSpace(req.Subject),
		Body:        body,
		Mood:        mood,
		VoicePath:   voicePath,
		Attachments: attachments,
	}

	if err := s.store.AppendLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.notifier != nil {
		s.notifier.NotifyLetter(recipientID, letter)
	}

	return letter, nil
}

// uploadAttachments uploads the accepted files concurrently. Each upload is
// attempted independently; failures leave a hole that is dropped when the
// results are collected back into submission order.
func (s *Service) uploadAttachments(ctx context.Context, ownerID string, files []File) []models.Attachment {
	results := make([]*models.Attachment, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()

			path, err := s.uploader.Upload(ctx, ownerID, s.attachmentsBucket, f)
			if err != nil {
				log.Printf("Composer: omitting attachment %q: %v", f.Name, err)
				return
			}

			results[i] = &models.Attachment{
				Name: f.Name,
				Path: path,
				Type: f.ContentType,
				Size: f.Size,
			}
		}(i, f)
	}
	wg.Wait()

	attachments := make([]models.Attachment, 0, len(files))
	for _, r := range results {
		if r != nil {
			attachments = append(attachments, *r)
		}
	}
	return attachments
}

// resolveRecipient prefers the explicitly addressed recipient. The fallback
// reproduces the original two-party behavior: the recipient is the only
// participant in the directory who is not the sender. It silently picks the
// first such entry when more than two participants exist, which is why the
// explicit path is the primary contract.
func (s *Service) resolveRecipient(ctx context.Context, senderID, explicitID string) (string, error) {
	if explicitID != "" {
		return explicitID, nil
	}

	participants, err := s.directory.ListParticipants(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRecipient, err)
	}

	for _, p := range participants {
		if p.ID != senderID {
			return p.ID, nil
		}
	}

	return "", ErrNoRecipient
}
