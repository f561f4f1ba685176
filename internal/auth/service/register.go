package service

import (
	"context"
	"encoding/json"
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
	"github.com/Dorian9120/eventyfast/pkg/kvx"
)

// RegisterRequest is the first step of registration. Nothing is persisted to
// the account table until the emailed code is verified.
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	Phone       string
	DateOfBirth time.Time
}

// pendingRegistration is stashed in the KV store between the two steps.
type pendingRegistration struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

func pendingKey(email string) string {
	return "pending_register:" + strings.ToLower(email)
}

// RegisterService implements two-step registration: validate and stash, then
// verify the emailed code and create the account.
type RegisterService struct {
	Store  store.Store
	Codes  *VerificationCodes
	KV     kvx.Store
	Mailer mailer.Mailer
	Log    *slog.Logger
	Now    func() time.Time
}

func (s *RegisterService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Request validates the fields, checks uniqueness, stashes the pending
// registration and emails a verification code. The account is NOT created.
func (s *RegisterService) Request(ctx context.Context, req RegisterRequest) error {
	if err := validateUsername(req.Username); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if err := validatePhone(req.Phone); err != nil {
		return err
	}
	if err := validateAge(req.DateOfBirth, s.now()); err != nil {
		return err
	}

	email := strings.ToLower(req.Email)
	if err := s.checkUnique(ctx, email, req.Username, req.Phone); err != nil {
		return err
	}

	pending := pendingRegistration{
		Username:    req.Username,
		Email:       email,
		Password:    req.Password,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending registration: %w", err)
	}
	if err := s.KV.Set(ctx, pendingKey(email), raw, RegisterCodeTTL+codeRetentionGrace); err != nil {
		return fmt.Errorf("stash pending registration: %w", err)
	}

	code, err := s.Codes.Issue(ctx, CodeRegister, email, RegisterCodeTTL)
	if err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, mailer.KindVerificationCode, email, mailer.Data{
		"Code": code,
		"TTL":  "10 minutes",
	}); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// VerifyCode completes registration: checks the code, creates the account
// with a freshly hashed password, and only then consumes the code so a
// failed create can be retried.
func (s *RegisterService) VerifyCode(ctx context.Context, email, code string) (domain.Profile, error) {
	email = strings.ToLower(email)

	if err := s.Codes.Verify(ctx, CodeRegister, email, code); err != nil {
		return domain.Profile{}, err
	}

	raw, ok, err := s.KV.Get(ctx, pendingKey(email))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read pending registration: %w", err)
	}
	if !ok {
		return domain.Profile{}, ErrCodeNotFound
	}
	var pending pendingRegistration
	if err := json.Unmarshal(raw, &pending); err != nil {
		return domain.Profile{}, fmt.Errorf("decode pending registration: %w", err)
	}

	hash, err := cryptox.HashPassword(pending.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: hash,
		Phone:        pending.Phone,
		DateOfBirth:  pending.DateOfBirth,
		Role:         domain.RoleUser,
	}
	if err := s.Store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ErrEmailTaken
		}
		return domain.Profile{}, fmt.Errorf("create account: %w", err)
	}

	// Consume only after the account exists.
	if err := s.Codes.Invalidate(ctx, CodeRegister, email); err != nil {
		s.Log.ErrorContext(ctx, "invalidate registration code", "error", err)
	}
	if err := s.KV.Delete(ctx, pendingKey(email)); err != nil {
		s.Log.ErrorContext(ctx, "drop pending registration", "error", err)
	}

	return domain.ProfileOf(account), nil
}

func (s *RegisterService) checkUnique(ctx context.Context, email, username, phone string) error {
	if _, err := s.Store.Accounts().GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	if _, err := s.Store.Accounts().GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if _, err := s.Store.Accounts().GetByPhone(ctx, phone); err == nil {
		return ErrPhoneTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check phone: %w", err)
	}
	return nil
}
