package service

import (
	"context"
	"testing"
	"time"

	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/Dorian9120/eventyfast/pkg/cryptox"
	"github.com/Dorian9120/eventyfast/pkg/kvx"
	"github.com/stretchr/testify/require"
)

func newPasswordFixture(t *testing.T) (*PasswordService, *mailer.Recorder, *time.Time) {
	t.Helper()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	recorder := &mailer.Recorder{}

	svc := &PasswordService{
		Store:  newServiceStore(t),
		Codes:  &VerificationCodes{KV: kvx.NewMemoryAt(clock), Now: clock},
		Mailer: recorder,
		Log:    discardLogger(),
		Now:    clock,
	}
	return svc, recorder, &now
}

func TestPasswordResetEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, _ := newPasswordFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")

	require.NoError(t, svc.RequestReset(ctx, "Alice@Example.COM"))
	code := codeFromMail(t, rec)

	require.NoError(t, svc.ConfirmReset(ctx, "alice@example.com", code, "newpass1"))

	got, err := svc.Store.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("newpass1", got.PasswordHash))

	// Single use.
	require.ErrorIs(t, svc.ConfirmReset(ctx, "alice@example.com", code, "other1x"), ErrCodeNotFound)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newPasswordFixture(t)

	require.ErrorIs(t, svc.RequestReset(context.Background(), "ghost@example.com"), ErrNotRegistered)
}

func TestPasswordResetCodeExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, now := newPasswordFixture(t)
	seedAccount(t, svc.Store, "alice@example.com", "abc123")

	require.NoError(t, svc.RequestReset(ctx, "alice@example.com"))
	code := codeFromMail(t, rec)

	*now = now.Add(ResetCodeTTL + time.Second)
	require.ErrorIs(t, svc.ConfirmReset(ctx, "alice@example.com", code, "newpass1"), ErrCodeExpired)
}

func TestPasswordResetKeepsCodeOnWeakPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, _ := newPasswordFixture(t)
	seedAccount(t, svc.Store, "alice@example.com", "abc123")

	require.NoError(t, svc.RequestReset(ctx, "alice@example.com"))
	code := codeFromMail(t, rec)

	// Policy failure must not consume the code.
	require.ErrorIs(t, svc.ConfirmReset(ctx, "alice@example.com", code, "short"), ErrInvalidPassword)
	require.NoError(t, svc.ConfirmReset(ctx, "alice@example.com", code, "newpass1"))
}

func TestPasswordChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, _ := newPasswordFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")

	require.ErrorIs(t, svc.Change(ctx, account.ID, "wrong1", "newpass1"), ErrWrongPassword)
	require.ErrorIs(t, svc.Change(ctx, account.ID, "abc123", "weak"), ErrInvalidPassword)

	require.NoError(t, svc.Change(ctx, account.ID, "abc123", "newpass1"))

	got, err := svc.Store.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("newpass1", got.PasswordHash))
	require.Equal(t, 1, got.UpdateCount)

	require.Len(t, rec.ByKind(mailer.KindPasswordChangedNotice), 1)
}

func TestPasswordChangeThrottle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, now := newPasswordFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "pass1a")

	passwords := []string{"pass1a", "pass2b", "pass3c", "pass4d"}
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Change(ctx, account.ID, passwords[i], passwords[i+1]))
	}

	// Fourth change inside the hour is rejected.
	require.ErrorIs(t, svc.Change(ctx, account.ID, "pass4d", "pass5e"), ErrRateLimited)

	// After the window rolls over it works again.
	*now = now.Add(time.Hour + time.Minute)
	require.NoError(t, svc.Change(ctx, account.ID, "pass4d", "pass5e"))
}

func TestVerifyCurrentPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newPasswordFixture(t)
	account := seedAccount(t, svc.Store, "alice@example.com", "abc123")

	require.NoError(t, svc.VerifyCurrent(ctx, account.ID, "abc123"))
	require.ErrorIs(t, svc.VerifyCurrent(ctx, account.ID, "nope12"), ErrWrongPassword)
}
