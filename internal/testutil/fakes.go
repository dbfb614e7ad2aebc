package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eletters/backend/internal/db"
	"github.com/eletters/backend/internal/models"
	"github.com/google/uuid"
)

// MemBlobStore is an in-memory stand-in for the object store. It satisfies
// the letters.BlobStore interface and records every stored object so tests
// can assert on uploads (including orphans left by a failed persist).
type MemBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// PutErr, when set, is consulted before storing an object; a non-nil
	// return fails that one upload.
	PutErr func(bucket, key string, body []byte) error

	// SignErr, when set, is consulted before signing; a non-nil return
	// fails that one resolution.
	SignErr func(bucket, key string) error
}

func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{objects: make(map[string][]byte)}
}

func (m *MemBlobStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	if m.PutErr != nil {
		if err := m.PutErr(bucket, key, data); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *MemBlobStore) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if m.SignErr != nil {
		if err := m.SignErr(bucket, key); err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[bucket+"/"+key]; !ok {
		return "", errors.New("object not found")
	}

	return fmt.Sprintf("https://blobs.test/%s/%s?expires=%d", bucket, key, int(ttl.Seconds())), nil
}

// SeedObject stores an object directly, bypassing Put hooks.
func (m *MemBlobStore) SeedObject(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
}

// Object returns a stored object's content.
func (m *MemBlobStore) Object(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	return data, ok
}

// Keys returns the keys stored in one bucket, sorted.
func (m *MemBlobStore) Keys(bucket string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for name := range m.objects {
		if rest, ok := strings.CutPrefix(name, bucket+"/"); ok {
			keys = append(keys, rest)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len returns the total number of stored objects across buckets.
func (m *MemBlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}


// FakeDirectory is an in-memory participant directory.
type FakeDirectory struct {
	Participants []models.Participant
	Err          error
}

func (d *FakeDirectory) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Participants, nil
}

// FakeLetterStore is an in-memory letter store implementing the same
// contract as the postgres-backed one: append-only rows, newest-first
// listing, and a recipient-only, idempotent read transition.
type FakeLetterStore struct {
	mu      sync.Mutex
	letters []*models.Letter

	// AppendErr, when set, fails every append.
	AppendErr error
}

func (s *FakeLetterStore) AppendLetter(ctx context.Context, letter *models.Letter) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	letter.ID = uuid.NewString()
	letter.CreatedAt = time.Now().Add(time.Duration(len(s.letters)) * time.Millisecond)
	stored := *letter
	s.letters = append(s.letters, &stored)
	return nil
}

func (s *FakeLetterStore) GetLetterByID(ctx context.Context, letterID string) (*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, letter := range s.letters {
		if letter.ID == letterID {
			copied := *letter
			return &copied, nil
		}
	}
	return nil, db.ErrLetterNotFound
}

func (s *FakeLetterStore) ListLettersFor(ctx context.Context, principalID string) ([]*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Letter
	for i := len(s.letters) - 1; i >= 0; i-- {
		letter := s.letters[i]
		if letter.SenderID == principalID || letter.RecipientID == principalID {
			copied := *letter
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *FakeLetterStore) MarkLetterRead(ctx context.Context, letterID, actingPrincipalID string) (*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, letter := range s.letters {
		if letter.ID != letterID {
			continue
		}
		if letter.RecipientID == actingPrincipalID && !letter.IsRead {
			letter.IsRead = true
		}
		copied := *letter
		return &copied, nil
	}
	return nil, db.ErrLetterNotFound
}

// Len returns the number of stored letters.
func (s *FakeLetterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.letters)
}
