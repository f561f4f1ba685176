package service

import (
	"context"
	"testing"

	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &mailer.Recorder{}
	svc := &ContactService{Store: newServiceStore(t), Mailer: rec, SupportEmail: "support@eventyfast.example", Log: discardLogger()}
	account := seedAccount(t, svc.Store, "bob@example.com", "abc123")

	req := ContactRequest{
		Username: account.Username,
		Email:    account.Email,
		Subject:  "question",
		Message:  "how do I cancel a ticket?",
	}
	require.NoError(t, svc.Submit(ctx, req))

	forms := rec.ByKind(mailer.KindContactForm)
	require.Len(t, forms, 1)
	require.Equal(t, "support@eventyfast.example", forms[0].To)

	confirms := rec.ByKind(mailer.KindContactConfirmation)
	require.Len(t, confirms, 1)
	require.Equal(t, account.Email, confirms[0].To)
}

func TestContactSubmitValidation(t *testing.T) {
	t.Parallel()
	svc := &ContactService{Store: newServiceStore(t), Mailer: &mailer.Recorder{}, SupportEmail: "support@eventyfast.example", Log: discardLogger()}

	require.ErrorIs(t, svc.Submit(context.Background(), ContactRequest{Username: "bob"}), ErrMissingContactFields)
	require.ErrorIs(t, svc.Submit(context.Background(), ContactRequest{
		Username: "bob", Email: "not-an-email", Subject: "s", Message: "m",
	}), ErrInvalidEmail)
}

func TestContactSubmitRequiresMatchingAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &mailer.Recorder{}
	svc := &ContactService{Store: newServiceStore(t), Mailer: rec, SupportEmail: "support@eventyfast.example", Log: discardLogger()}
	account := seedAccount(t, svc.Store, "bob@example.com", "abc123")

	// Unknown email.
	require.ErrorIs(t, svc.Submit(ctx, ContactRequest{
		Username: account.Username, Email: "stranger@example.com", Subject: "s", Message: "m",
	}), ErrContactNoMatch)

	// Known email, wrong username.
	require.ErrorIs(t, svc.Submit(ctx, ContactRequest{
		Username: "impostor", Email: account.Email, Subject: "s", Message: "m",
	}), ErrContactNoMatch)

	require.Empty(t, rec.ByKind(mailer.KindContactForm))
}
