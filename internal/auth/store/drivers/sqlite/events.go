package sqlite

import (
	"context"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
)

type eventsRepo struct {
	db dbtx
}

func (r *eventsRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, participants, max_participants
		FROM events
		WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Participants, &e.MaxParticipants); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventsRepo) Create(ctx context.Context, e domain.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, owner_id, title, participants, max_participants)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Title, e.Participants, e.MaxParticipants,
	)
	return mapConstraint(err)
}
