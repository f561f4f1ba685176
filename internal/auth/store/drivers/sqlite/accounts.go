package sqlite

import (
	"context"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
)

const accountColumns = `id, username, email, password_hash, phone, date_of_birth, role,
	update_count, last_update, totp_secret, two_factor_enabled, two_factor_verified,
	created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = lower(?)`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByPhone(ctx context.Context, phone string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE phone = ?`, phone)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, username, email, password_hash, phone, date_of_birth, role,
			update_count, last_update, totp_secret, two_factor_enabled, two_factor_verified
		) VALUES (?, ?, lower(?), ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.Phone,
		a.DateOfBirth,
		a.Role,
		a.UpdateCount,
		mapOptionalTime(a.LastUpdate),
		mapOptionalString(a.TOTPSecret),
		a.TwoFactorEnabled,
		a.TwoFactorVerified,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	return r.exec(ctx, `
		UPDATE accounts SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, newHash, id)
}

func (r *accountsRepo) UpdateUsername(ctx context.Context, id string, username string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET username = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, username, id)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateMutationWindow(ctx context.Context, id string, count int, windowStart time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts SET update_count = ?, last_update = ?
		WHERE id = ?`, count, windowStart, id)
}

func (r *accountsRepo) UpdateTwoFactor(ctx context.Context, id string, secret *string, enabled, verified bool) error {
	return r.exec(ctx, `
		UPDATE accounts SET totp_secret = ?, two_factor_enabled = ?, two_factor_verified = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, mapOptionalString(secret), enabled, verified, id)
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM accounts WHERE id = ?`, id)
}

// exec runs an UPDATE/DELETE that must touch exactly one row, mapping a miss
// to store.ErrNotFound.
func (r *accountsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
