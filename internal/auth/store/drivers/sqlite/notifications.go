package sqlite

import (
	"context"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
)

type notificationsRepo struct {
	db dbtx
}

func (r *notificationsRepo) Exists(ctx context.Context, accountID, eventID, notifType string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM notifications
		WHERE account_id = ? AND event_id = ? AND type = ?`,
		accountID, eventID, notifType,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *notificationsRepo) Create(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, account_id, event_id, message, type, read)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.AccountID, n.EventID, n.Message, n.Type, n.Read,
	)
	return mapConstraint(err)
}
