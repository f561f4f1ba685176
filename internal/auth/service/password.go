package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/Dorian9120/eventyfast/pkg/cryptox"
)

// PasswordService covers the reset-by-email flow and the logged-in password
// change.
type PasswordService struct {
	Store  store.Store
	Codes  *VerificationCodes
	Mailer mailer.Mailer
	Log    *slog.Logger
	Now    func() time.Time
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RequestReset issues a short-lived reset code and emails it. Unknown emails
// fail with ErrNotRegistered.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	if _, err := s.Store.Accounts().GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	code, err := s.Codes.Issue(ctx, CodeReset, email, ResetCodeTTL)
	if err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, mailer.KindVerificationCode, email, mailer.Data{
		"Code": code,
		"TTL":  "5 minutes",
	}); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ConfirmReset checks the code and sets the new password. The code is only
// consumed once the password write has succeeded, so a transient store
// failure leaves it usable for a retry.
func (s *PasswordService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(email)

	if err := s.Codes.Verify(ctx, CodeReset, email, code); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	account, err := s.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.Codes.Invalidate(ctx, CodeReset, email); err != nil {
		s.Log.ErrorContext(ctx, "invalidate reset code", "error", err)
	}
	return nil
}

// Change updates the password for a logged-in account. It requires the old
// password, enforces the password policy and the mutation throttle, and
// sends a best-effort confirmation email.
func (s *PasswordService) Change(ctx context.Context, accountID, oldPassword, newPassword string) error {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if err := cryptox.VerifyPassword(oldPassword, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("verify password: %w", err)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	allowed, newCount, newStart := TakeMutation(account.UpdateCount, account.LastUpdate, s.now())
	if !allowed {
		return ErrRateLimited
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
			return err
		}
		return tx.Accounts().UpdateMutationWindow(ctx, accountID, newCount, newStart)
	})
	if err != nil {
		return fmt.Errorf("persist password change: %w", err)
	}

	if err := s.Mailer.Send(ctx, mailer.KindPasswordChangedNotice, account.Email, mailer.Data{
		"Username": account.Username,
		"Time":     s.now().Format(time.RFC1123),
	}); err != nil {
		s.Log.ErrorContext(ctx, "send password change notice", "error", err, "account_id", accountID)
	}
	return nil
}

// VerifyCurrent checks a password against the account's current hash without
// changing anything. Used to gate sensitive UI flows.
func (s *PasswordService) VerifyCurrent(ctx context.Context, accountID, password string) error {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}
