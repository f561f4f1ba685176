package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/internal/mailer"
)

// ContactRequest is one contact-form submission.
type ContactRequest struct {
	Username string
	Email    string
	Subject  string
	Message  string
}

var (
	// ErrMissingContactFields rejects incomplete contact submissions.
	ErrMissingContactFields = errors.New("all contact fields are required")

	// ErrContactNoMatch rejects submissions whose username and email do not
	// belong to the same account.
	ErrContactNoMatch = errors.New("no account matches this username and email")
)

// ContactService forwards contact-form submissions to the support inbox and
// confirms receipt to the sender. Submissions must come from a registered
// account so the form cannot be used to relay arbitrary mail.
type ContactService struct {
	Store        store.Store
	Mailer       mailer.Mailer
	SupportEmail string
	Log          *slog.Logger
}

// Submit delivers the message to support. The confirmation back to the
// sender is best effort.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) error {
	if req.Username == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return ErrMissingContactFields
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	account, err := s.Store.Accounts().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrContactNoMatch
		}
		return fmt.Errorf("look up contact sender: %w", err)
	}
	if account.Username != req.Username {
		return ErrContactNoMatch
	}

	err = s.Mailer.Send(ctx, mailer.KindContactForm, s.SupportEmail, mailer.Data{
		"Username": req.Username,
		"Email":    req.Email,
		"Subject":  req.Subject,
		"Message":  req.Message,
	})
	if err != nil {
		return fmt.Errorf("forward contact message: %w", err)
	}

	if err := s.Mailer.Send(ctx, mailer.KindContactConfirmation, req.Email, mailer.Data{
		"Username": req.Username,
		"Subject":  req.Subject,
	}); err != nil {
		s.Log.ErrorContext(ctx, "send contact confirmation", "error", err)
	}
	return nil
}
