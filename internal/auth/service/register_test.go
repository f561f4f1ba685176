package service

import (
	"context"
	"testing"
	"time"

	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/Dorian9120/eventyfast/pkg/kvx"
	"github.com/stretchr/testify/require"
)

func newRegisterFixture(t *testing.T) (*RegisterService, *mailer.Recorder, *time.Time) {
	t.Helper()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	kv := kvx.NewMemoryAt(clock)
	recorder := &mailer.Recorder{}

	svc := &RegisterService{
		Store:  newServiceStore(t),
		Codes:  &VerificationCodes{KV: kv, Now: clock},
		KV:     kv,
		Mailer: recorder,
		Log:    discardLogger(),
		Now:    clock,
	}
	return svc, recorder, &now
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username:    "newcomer",
		Email:       "New.Comer@Example.COM",
		Password:    "abc123",
		Phone:       "0611223344",
		DateOfBirth: time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// codeFromMail digs the emailed code out of the recorder.
func codeFromMail(t *testing.T, rec *mailer.Recorder) string {
	t.Helper()
	msgs := rec.ByKind(mailer.KindVerificationCode)
	require.NotEmpty(t, msgs)
	code, ok := msgs[len(msgs)-1].Data["Code"].(string)
	require.True(t, ok)
	return code
}

func TestRegisterEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, _ := newRegisterFixture(t)

	require.NoError(t, svc.Request(ctx, validRegisterRequest()))

	// Account does not exist yet.
	_, err := svc.Store.Accounts().GetByEmail(ctx, "new.comer@example.com")
	require.Error(t, err)

	code := codeFromMail(t, rec)
	profile, err := svc.VerifyCode(ctx, "new.comer@example.com", code)
	require.NoError(t, err)
	require.Equal(t, "newcomer", profile.Username)
	require.Equal(t, "new.comer@example.com", profile.Email)

	// Password is stored hashed, never the plaintext.
	account, err := svc.Store.Accounts().GetByEmail(ctx, "new.comer@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "abc123", account.PasswordHash)
	require.Contains(t, account.PasswordHash, "$argon2id$")

	// The code is single-use: resubmitting fails.
	_, err = svc.VerifyCode(ctx, "new.comer@example.com", code)
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRegisterFieldValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newRegisterFixture(t)

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr error
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }, ErrInvalidUsername},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"weak password", func(r *RegisterRequest) { r.Password = "abcdef" }, ErrInvalidPassword},
		{"bad phone", func(r *RegisterRequest) { r.Phone = "12345" }, ErrInvalidPhone},
		{"too young", func(r *RegisterRequest) { r.DateOfBirth = time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC) }, ErrTooYoung},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)
			require.ErrorIs(t, svc.Request(ctx, req), tt.wantErr)
		})
	}
}

func TestRegisterUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newRegisterFixture(t)
	existing := seedAccount(t, svc.Store, "taken@example.com", "abc123")

	req := validRegisterRequest()
	req.Email = "taken@example.com"
	require.ErrorIs(t, svc.Request(ctx, req), ErrEmailTaken)

	req = validRegisterRequest()
	req.Username = existing.Username
	require.ErrorIs(t, svc.Request(ctx, req), ErrUsernameTaken)

	req = validRegisterRequest()
	req.Phone = existing.Phone
	require.ErrorIs(t, svc.Request(ctx, req), ErrPhoneTaken)
}

func TestRegisterCodeExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, now := newRegisterFixture(t)

	require.NoError(t, svc.Request(ctx, validRegisterRequest()))
	code := codeFromMail(t, rec)

	*now = now.Add(RegisterCodeTTL + time.Minute)

	_, err := svc.VerifyCode(ctx, "new.comer@example.com", code)
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestRegisterWrongCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec, _ := newRegisterFixture(t)

	require.NoError(t, svc.Request(ctx, validRegisterRequest()))
	code := codeFromMail(t, rec)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := svc.VerifyCode(ctx, "new.comer@example.com", wrong)
	require.ErrorIs(t, err, ErrCodeMismatch)

	// The right code still works afterwards.
	_, err = svc.VerifyCode(ctx, "new.comer@example.com", code)
	require.NoError(t, err)
}
