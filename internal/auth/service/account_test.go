package service

import (
	"context"
	"testing"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newAccountFixture(t *testing.T) (*AccountService, *time.Time) {
	t.Helper()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := &AccountService{
		Store: newServiceStore(t),
		Log:   discardLogger(),
		Now:   clock,
	}
	return svc, &now
}

func TestUpdateUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")
	other := seedAccount(t, svc.Store, "bob@example.com", "abc123")

	require.ErrorIs(t, svc.UpdateUsername(ctx, account.ID, "ab"), ErrInvalidUsername)
	require.ErrorIs(t, svc.UpdateUsername(ctx, account.ID, other.Username), ErrUsernameTaken)

	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "fresh_name"))
	profile, err := svc.Get(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "fresh_name", profile.Username)
}

func TestUpdateUsernameThrottle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, now := newAccountFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")

	for i, name := range []string{"name_one", "name_two", "name_three"} {
		require.NoError(t, svc.UpdateUsername(ctx, account.ID, name), "update %d", i+1)
	}
	require.ErrorIs(t, svc.UpdateUsername(ctx, account.ID, "name_four"), ErrRateLimited)

	*now = now.Add(time.Hour + time.Minute)
	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "name_four"))
}

func TestUpdateUsernameThrottleSlidesWithEachChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, now := newAccountFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")
	start := *now

	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "name_one"))
	*now = start.Add(30 * time.Minute)
	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "name_two"))
	*now = start.Add(50 * time.Minute)
	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "name_three"))

	// 70 minutes after the first change but only 20 after the most recent
	// one: the hour slides from the latest change, so this is rejected.
	*now = start.Add(70 * time.Minute)
	require.ErrorIs(t, svc.UpdateUsername(ctx, account.ID, "name_four"), ErrRateLimited)

	*now = start.Add(111 * time.Minute)
	require.NoError(t, svc.UpdateUsername(ctx, account.ID, "name_four"))
}

func TestHistoryAuthorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountFixture(t)
	alice := seedAccount(t, svc.Store, "alice@example.com", "abc123")
	bob := seedAccount(t, svc.Store, "bob@example.com", "abc123")

	rec := domain.LoginRecord{
		ID: idx.New().String(), AccountID: alice.ID,
		LoginTime: time.Now().UTC(), IPAddress: "203.0.113.7",
	}
	require.NoError(t, svc.Store.LoginHistory().Create(ctx, rec))

	// Own history: allowed.
	recs, err := svc.History(ctx, alice.ID, domain.RoleUser, alice.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Someone else's: forbidden.
	_, err = svc.History(ctx, bob.ID, domain.RoleUser, alice.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Admin may read anyone's.
	recs, err = svc.History(ctx, bob.ID, domain.RoleAdmin, alice.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Clearing follows the same rule.
	_, err = svc.ClearHistory(ctx, bob.ID, domain.RoleUser, alice.ID)
	require.ErrorIs(t, err, ErrForbidden)

	n, err := svc.ClearHistory(ctx, alice.ID, domain.RoleUser, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountFixture(t)
	alice := seedAccount(t, svc.Store, "alice@example.com", "abc123")
	bob := seedAccount(t, svc.Store, "bob@example.com", "abc123")

	require.ErrorIs(t, svc.Delete(ctx, bob.ID, domain.RoleUser, alice.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, alice.ID, domain.RoleUser, alice.ID))
	_, err := svc.Store.Accounts().GetByID(ctx, alice.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
