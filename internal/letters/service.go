// Package letters implements the composition-to-delivery pipeline: asset
// validation, per-owner uploads, atomic letter persistence, signed-URL
// resolution at read time, and per-recipient read state.
package letters

import (
	"context"
	"fmt"
	"log"

	"github.com/eletters/backend/internal/models"
)

// Store is the persistence surface the pipeline depends on. Implemented by
// db.LetterStore in production.
type Store interface {
	AppendLetter(ctx context.Context, letter *models.Letter) error
	GetLetterByID(ctx context.Context, letterID string) (*models.Letter, error)
	ListLettersFor(ctx context.Context, principalID string) ([]*models.Letter, error)
	MarkLetterRead(ctx context.Context, letterID, actingPrincipalID string) (*models.Letter, error)
}

// Directory is the external participant directory. The backend only reads
// it, to resolve recipients and display names.
type Directory interface {
	ListParticipants(ctx context.Context) ([]models.Participant, error)
}

// Notifier is told when a letter has been delivered to a recipient.
// Implemented by the websocket hub; may be nil.
type Notifier interface {
	NotifyLetter(recipientID string, letter *models.Letter)
}

// Service wires the pipeline together.
type Service struct {
	store             Store
	blobs             BlobStore
	uploader          *Uploader
	directory         Directory
	notifier          Notifier
	attachmentsBucket string
	voiceBucket       string
}

func NewService(store Store, blobs BlobStore, directory Directory, notifier Notifier, attachmentsBucket, voiceBucket string) *Service {
	return &Service{
		store:             store,
		blobs:             blobs,
		uploader:          NewUploader(blobs),
		directory:         directory,
		notifier:          notifier,
		attachmentsBucket: attachmentsBucket,
		voiceBucket:       voiceBucket,
	}
}

// ListFor returns every letter the principal sent or received, newest
// first, with sender display names resolved from the directory. A directory
// failure degrades the annotation, not the listing.
func (s *Service) ListFor(ctx context.Context, principalID string) ([]*models.Letter, error) {
	lettersList, err := s.store.ListLettersFor(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}

	participants, err := s.directory.ListParticipants(ctx)
	if err != nil {
		log.Printf("Letters: could not resolve sender names: %v", err)
		participants = nil
	}

	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.DisplayName
	}

	for _, letter := range lettersList {
		if name, ok := names[letter.SenderID]; ok && name != "" {
			letter.SenderName = name
		} else {
			letter.SenderName = "Unknown"
		}
	}

	return lettersList, nil
}

// MarkRead transitions a letter's read flag from unread to read. The
// transition fires at most once, and only when the acting principal is the
// recipient; every other invocation returns the letter unchanged.
func (s *Service) MarkRead(ctx context.Context, letterID, actingPrincipalID string) (*models.Letter, error) {
	return s.store.MarkLetterRead(ctx, letterID, actingPrincipalID)
}

// GetLetter returns one letter, restricted to its two parties.
func (s *Service) GetLetter(ctx context.Context, letterID, actingPrincipalID string) (*models.Letter, error) {
	letter, err := s.store.GetLetterByID(ctx, letterID)
	if err != nil {
		return nil, err
	}

	if letter.SenderID != actingPrincipalID && letter.RecipientID != actingPrincipalID {
		return nil, ErrNotParty
	}

	return letter, nil
}

// Participants returns the directory listing, for recipient selection.
func (s *Service) Participants(ctx context.Context) ([]models.Participant, error) {
	return s.directory.ListParticipants(ctx)
}

// Counts summarizes a principal's mailbox for the list surface.
type Counts struct {
	Sent     int `json:"sent"`
	Received int `json:"received"`
	Unread   int `json:"unread"`
}

// CountsFor tallies sent, received and unread letters for the principal.
func CountsFor(principalID string, lettersList []*models.Letter) Counts {
	var c Counts
	for _, letter := range lettersList {
		if letter.SenderID == principalID {
			c.Sent++
		}
		if letter.RecipientID == principalID {
			c.Received++
			if !letter.IsRead {
				c.Unread++
			}
		}
	}
	return c
}
