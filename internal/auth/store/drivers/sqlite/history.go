package sqlite

import (
	"context"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
)

type historyRepo struct {
	db dbtx
}

func (r *historyRepo) Create(ctx context.Context, rec domain.LoginRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_history (id, account_id, login_time, ip_address, device)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.AccountID, rec.LoginTime, rec.IPAddress, rec.Device,
	)
	return err
}

func (r *historyRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.LoginRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, login_time, ip_address, device
		FROM login_history
		WHERE account_id = ?
		ORDER BY login_time DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LoginRecord
	for rows.Next() {
		var rec domain.LoginRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.LoginTime, &rec.IPAddress, &rec.Device); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM login_history WHERE account_id = ?`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
