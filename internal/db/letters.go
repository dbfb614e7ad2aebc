package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eletters/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLetterNotFound is returned when a requested letter cannot be found.
var ErrLetterNotFound = errors.New("letter not found")

// AppendLetter inserts a new letter row and populates the server-assigned
// id and creation timestamp on the given letter. Letters are append-only:
// there is no update or delete path for anything but the read flag.
func AppendLetter(ctx context.Context, pool *pgxpool.Pool, letter *models.Letter) error {
	attachments := letter.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO letters (
			sender_id,
			recipient_id,
			subject,
			body,
			mood,
			voice_path,
			attachments
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		letter.SenderID,
		letter.RecipientID,
		nullIfEmpty(letter.Subject),
		letter.Body,
		letter.Mood,
		nullIfEmpty(letter.VoicePath),
		attachmentsJSON,
	).Scan(&letter.ID, &letter.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append letter: %w", err)
	}

	return nil
}

// GetLetterByID returns one letter by its id.
func GetLetterByID(ctx context.Context, pool *pgxpool.Pool, letterID string) (*models.Letter, error) {
	row := pool.QueryRow(ctx, `
		SELECT id, sender_id, recipient_id, subject, body, mood, voice_path, attachments, is_read, created_at
		FROM letters
		WHERE id = $1
	`, letterID)

	letter, err := scanLetter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLetterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}

	return letter, nil
}

// ListLettersFor returns every letter where the principal is the sender or
// the recipient, newest first.
func ListLettersFor(ctx context.Context, pool *pgxpool.Pool, principalID string) ([]*models.Letter, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, subject, body, mood, voice_path, attachments, is_read, created_at
		FROM letters
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC, id DESC
	`, principalID)

	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	defer rows.Close()

	var letters []*models.Letter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, letter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating letters: %w", err)
	}

	return letters, nil
}

// MarkLetterRead flips the read flag of a letter to true, but only when the
// acting principal is the recipient and the letter is still unread. Any
// other invocation is an idempotent no-op: the letter is returned with its
// current state and no error. The letter must exist.
func MarkLetterRead(ctx context.Context, pool *pgxpool.Pool, letterID, actingPrincipalID string) (*models.Letter, error) {
	// Zero rows affected means the caller is not the recipient or the
	// letter was already read. Either way the stored state is authoritative.
	_, err := pool.Exec(ctx, `
		UPDATE letters
		SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2 AND is_read = FALSE
	`, letterID, actingPrincipalID)

	if err != nil {
		return nil, fmt.Errorf("failed to mark letter read: %w", err)
	}

	return GetLetterByID(ctx, pool, letterID)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (*models.Letter, error) {
	var (
		letter          models.Letter
		subject         *string
		voicePath       *string
		attachmentsJSON []byte
	)

	if err := row.Scan(
		&letter.ID,
		&letter.SenderID,
		&letter.RecipientID,
		&subject,
		&letter.Body,
		&letter.Mood,
		&voicePath,
		&attachmentsJSON,
		&letter.IsRead,
		&letter.CreatedAt,
	); err != nil {
		return nil, err
	}

	if subject != nil {
		letter.Subject = *subject
	}
	if voicePath != nil {
		letter.VoicePath = *voicePath
	}

	letter.Attachments = []models.Attachment{}
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &letter.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}

	return &letter, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
