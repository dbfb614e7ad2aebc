package db

import (
	"context"
	"fmt"

	"github.com/eletters/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListParticipants returns every known participant. The table mirrors the
// profiles kept by the external identity service; rows are written by its
// provisioning hook, never by this backend.
func ListParticipants(ctx context.Context, pool *pgxpool.Pool) ([]models.Participant, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, display_name
		FROM participants
		ORDER BY display_name, id
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// UpsertParticipant mirrors one identity-service profile into the local
// participants table.
func UpsertParticipant(ctx context.Context, pool *pgxpool.Pool, participant *models.Participant) error {
	err := pool.QueryRow(ctx, `
		INSERT INTO participants (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name
		RETURNING id
	`, participant.ID, participant.DisplayName).Scan(&participant.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}

	return nil
}
