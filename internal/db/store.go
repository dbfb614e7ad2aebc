package db

import (
	"context"

	"github.com/eletters/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LetterStore adapts the function-style letter queries to the interface the
// letters service consumes.
type LetterStore struct {
	Pool *pgxpool.Pool
}

func (s *LetterStore) AppendLetter(ctx context.Context, letter *models.Letter) error {
	return AppendLetter(ctx, s.Pool, letter)
}

func (s *LetterStore) GetLetterByID(ctx context.Context, letterID string) (*models.Letter, error) {
	return GetLetterByID(ctx, s.Pool, letterID)
}

func (s *LetterStore) ListLettersFor(ctx context.Context, principalID string) ([]*models.Letter, error) {
	return ListLettersFor(ctx, s.Pool, principalID)
}

func (s *LetterStore) MarkLetterRead(ctx context.Context, letterID, actingPrincipalID string) (*models.Letter, error) {
	return MarkLetterRead(ctx, s.Pool, letterID, actingPrincipalID)
}

// ParticipantDirectory reads the mirrored identity-service profiles.
type ParticipantDirectory struct {
	Pool *pgxpool.Pool
}

func (d *ParticipantDirectory) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return ListParticipants(ctx, d.Pool)
}
