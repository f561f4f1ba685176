package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
)

// AccountService handles self-service profile mutation, connection history
// and account deletion.
type AccountService struct {
	Store store.Store
	Log   *slog.Logger
	Now   func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the sanitized profile for an account.
func (s *AccountService) Get(ctx context.Context, accountID string) (domain.Profile, error) {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.ProfileOf(account), nil
}

// UpdateUsername changes the display name, subject to the username policy,
// uniqueness and the mutation throttle.
func (s *AccountService) UpdateUsername(ctx context.Context, accountID, username string) error {
	if err := validateUsername(username); err != nil {
		return err
	}

	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if other, err := s.Store.Accounts().GetByUsername(ctx, username); err == nil {
		if other.ID != accountID {
			return ErrUsernameTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	allowed, newCount, newStart := TakeMutation(account.UpdateCount, account.LastUpdate, s.now())
	if !allowed {
		return ErrRateLimited
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateUsername(ctx, accountID, username); err != nil {
			return err
		}
		return tx.Accounts().UpdateMutationWindow(ctx, accountID, newCount, newStart)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("persist username change: %w", err)
	}
	return nil
}

// History lists connection history. Accounts may only read their own unless
// the caller is an admin.
func (s *AccountService) History(ctx context.Context, callerID, callerRole, targetID string) ([]domain.LoginRecord, error) {
	if callerID != targetID && callerRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.Store.LoginHistory().ListByAccount(ctx, targetID)
}

// ClearHistory removes all connection history for an account, same
// authorization rule as History. Returns how many entries were removed.
func (s *AccountService) ClearHistory(ctx context.Context, callerID, callerRole, targetID string) (int64, error) {
	if callerID != targetID && callerRole != domain.RoleAdmin {
		return 0, ErrForbidden
	}
	return s.Store.LoginHistory().DeleteByAccount(ctx, targetID)
}

// Delete removes the account. History, events and notifications go with it
// via the store's cascade.
func (s *AccountService) Delete(ctx context.Context, callerID, callerRole, targetID string) error {
	if callerID != targetID && callerRole != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.Store.Accounts().Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.Log.InfoContext(ctx, "account deleted", "account_id", targetID, "by", callerID)
	return nil
}
