package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/Dorian9120/eventyfast/pkg/cryptox"
	"github.com/Dorian9120/eventyfast/pkg/idx"
)

// LoginRequest carries everything a login needs, including the request
// metadata recorded in connection history.
type LoginRequest struct {
	Email    string
	Password string

	IPAddress string
	Device    string
}

// FederatedLoginRequest carries an external provider token plus the same
// request metadata.
type FederatedLoginRequest struct {
	RawToken string

	IPAddress string
	Device    string
}

// LoginResult is what a successful login produces: a signed session token
// and the sanitized profile to return to the client.
type LoginResult struct {
	Token   string
	Profile domain.Profile
}

// AuthService orchestrates password and federated logins: lockout gating,
// credential checks, and the post-login side effects.
type AuthService struct {
	Store    store.Store
	Gate     *RateGate
	Tokens   *TokenService
	Identity IdentityVerifier
	Mailer   mailer.Mailer
	Log      *slog.Logger
	Now      func() time.Time

	// AfterLoginHook runs after the asynchronous login notice is dispatched.
	// Tests use it to wait for the goroutine.
	AfterLoginHook func()
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login authenticates an email/password pair. Password mismatches count
// toward the lockout; a locked email is rejected before the password is
// even looked at.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}
	email := strings.ToLower(req.Email)

	locked, retryAfter, err := s.Gate.CheckLogin(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if locked {
		return LoginResult{}, &LockoutError{RetryAfter: retryAfter}
	}

	account, err := s.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrUnknownEmail
		}
		return LoginResult{}, fmt.Errorf("lookup account: %w", err)
	}

	if err := cryptox.VerifyPassword(req.Password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			if recErr := s.Gate.RecordFailure(ctx, email); recErr != nil {
				s.Log.ErrorContext(ctx, "record login failure", "error", recErr)
			}
			return LoginResult{}, ErrWrongPassword
		}
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}

	return s.completeLogin(ctx, account, req.IPAddress, req.Device)
}

// ErrFederatedDisabled is returned when no identity provider is configured.
var ErrFederatedDisabled = errors.New("federated login is not configured")

// FederatedLogin exchanges a verified external identity for a local session.
// The account must already exist; there is no auto-provisioning.
func (s *AuthService) FederatedLogin(ctx context.Context, req FederatedLoginRequest) (LoginResult, error) {
	if s.Identity == nil {
		return LoginResult{}, ErrFederatedDisabled
	}

	identity, err := s.Identity.Verify(ctx, req.RawToken)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrUnknownEmail, err)
	}

	email := strings.ToLower(identity.Email)
	account, err := s.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrNotRegistered
		}
		return LoginResult{}, fmt.Errorf("lookup account: %w", err)
	}

	return s.completeLogin(ctx, account, req.IPAddress, req.Device)
}

// completeLogin runs the shared post-authentication path: clear the lockout,
// notify owners of newly full events, append connection history, fire the
// login notice, and mint the session token.
func (s *AuthService) completeLogin(ctx context.Context, account domain.Account, ip, device string) (LoginResult, error) {
	if err := s.Gate.Clear(ctx, account.Email); err != nil {
		s.Log.ErrorContext(ctx, "clear lockout", "error", err)
	}

	if err := s.notifyFullEvents(ctx, account); err != nil {
		s.Log.ErrorContext(ctx, "scan full events", "error", err)
	}

	rec := domain.LoginRecord{
		ID:        idx.New().String(),
		AccountID: account.ID,
		LoginTime: s.now().UTC(),
		IPAddress: ip,
		Device:    device,
	}
	if err := s.Store.LoginHistory().Create(ctx, rec); err != nil {
		return LoginResult{}, fmt.Errorf("record login: %w", err)
	}

	// Best effort: the login already succeeded, so a delivery failure is
	// logged and never surfaced.
	go s.sendLoginNotice(account, rec)

	token, err := s.Tokens.IssueSession(account)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Profile: domain.ProfileOf(account)}, nil
}

// notifyFullEvents creates an "event_full" notification for each of the
// account's events that has reached capacity, skipping events already
// notified. Idempotent across logins.
func (s *AuthService) notifyFullEvents(ctx context.Context, account domain.Account) error {
	events, err := s.Store.Events().ListByOwner(ctx, account.ID)
	if err != nil {
		return err
	}

	for _, ev := range events {
		if !ev.Full() {
			continue
		}
		exists, err := s.Store.Notifications().Exists(ctx, account.ID, ev.ID, domain.NotificationEventFull)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		n := domain.Notification{
			ID:        idx.New().String(),
			AccountID: account.ID,
			EventID:   ev.ID,
			Message:   fmt.Sprintf("Your event %q is full.", ev.Title),
			Type:      domain.NotificationEventFull,
		}
		if err := s.Store.Notifications().Create(ctx, n); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}

func (s *AuthService) sendLoginNotice(account domain.Account, rec domain.LoginRecord) {
	// Detached from the request context on purpose; the response should not
	// wait for SMTP.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.Mailer.Send(ctx, mailer.KindLoginNotice, account.Email, mailer.Data{
		"Username":  account.Username,
		"Time":      rec.LoginTime.Format(time.RFC1123),
		"IPAddress": rec.IPAddress,
		"Device":    rec.Device,
	})
	if err != nil {
		s.Log.Error("send login notice", "error", err, "account_id", account.ID)
	}

	if s.AfterLoginHook != nil {
		s.AfterLoginHook()
	}
}

// LockoutError carries how long the caller must wait before retrying. It
// unwraps to ErrLockedOut so errors.Is keeps working.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s (retry in %s)", ErrLockedOut, e.RetryAfter.Round(time.Second))
}

func (e *LockoutError) Unwrap() error { return ErrLockedOut }
