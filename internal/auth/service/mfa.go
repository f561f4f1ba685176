package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrCodeSize = 256 // pixels, square

// MFAService manages the TOTP second factor. Enabling stores the secret and
// flips the enabled flag in the same write; the verified flag only turns on
// once the user proves they hold the secret, and protected actions check the
// code again every time.
type MFAService struct {
	Store  store.Store
	Issuer string // issuer name shown in authenticator apps
}

// Enable generates a fresh TOTP secret for the account and turns the second
// factor on immediately, unverified. Re-enabling replaces any prior secret.
func (s *MFAService) Enable(ctx context.Context, accountID string) (domain.TwoFactorEnrollResponse, error) {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return domain.TwoFactorEnrollResponse{}, fmt.Errorf("load account: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: account.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFactorEnrollResponse{}, fmt.Errorf("generate TOTP key: %w", err)
	}

	secret := key.Secret()
	if err := s.Store.Accounts().UpdateTwoFactor(ctx, accountID, &secret, true, false); err != nil {
		return domain.TwoFactorEnrollResponse{}, fmt.Errorf("store TOTP secret: %w", err)
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return domain.TwoFactorEnrollResponse{}, err
	}

	return domain.TwoFactorEnrollResponse{
		OTPAuthURL: key.URL(),
		QRCode:     qr,
	}, nil
}

// Verify checks a code against the stored secret and marks the factor
// verified on success.
func (s *MFAService) Verify(ctx context.Context, accountID, code string) error {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !account.TwoFactorEnabled || account.TOTPSecret == nil {
		return ErrTwoFactorNotEnabled
	}

	if !totp.Validate(code, *account.TOTPSecret) {
		return ErrIncorrectCode
	}

	if err := s.Store.Accounts().UpdateTwoFactor(ctx, accountID, account.TOTPSecret, true, true); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// VerifyAction gates a sensitive operation behind a fresh code. It never
// mutates state.
func (s *MFAService) VerifyAction(ctx context.Context, accountID, code string) error {
	account, err := s.Store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !account.TwoFactorEnabled || account.TOTPSecret == nil {
		return ErrTwoFactorNotEnabled
	}
	if !totp.Validate(code, *account.TOTPSecret) {
		return ErrIncorrectCode
	}
	return nil
}

// Disable clears the secret and both flags in one write. Disabling an
// account that never enabled the factor is a no-op.
func (s *MFAService) Disable(ctx context.Context, accountID string) error {
	if err := s.Store.Accounts().UpdateTwoFactor(ctx, accountID, nil, false, false); err != nil {
		return fmt.Errorf("disable two-factor: %w", err)
	}
	return nil
}

// qrDataURL renders the enrollment key as a base64 PNG data URL the client
// can drop straight into an <img> tag.
func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("render QR image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode QR png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
