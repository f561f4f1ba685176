package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Dorian9120/eventyfast/pkg/cryptox"
	"github.com/Dorian9120/eventyfast/pkg/kvx"
)

// Code namespaces. Registration and password-reset codes never collide even
// for the same email.
const (
	CodeRegister = "register"
	CodeReset    = "reset"
)

const (
	RegisterCodeTTL = 10 * time.Minute
	ResetCodeTTL    = 5 * time.Minute

	// Expired records are kept around a little longer so a late submit gets
	// "expired" instead of "not found".
	codeRetentionGrace = time.Hour
)

type codeRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerificationCodes issues and checks single-use numeric codes sent by
// email. A successful Verify does NOT consume the code; callers invalidate
// it only after the write that depended on it has succeeded, so a failed
// registration or reset can be retried with the same code.
type VerificationCodes struct {
	KV  kvx.Store
	Now func() time.Time
}

func (v *VerificationCodes) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func codeKey(namespace, email string) string {
	return "verify_code:" + namespace + ":" + strings.ToLower(email)
}

// Issue generates a fresh 6-digit code for the email, replacing any code
// already pending in the same namespace.
func (v *VerificationCodes) Issue(ctx context.Context, namespace, email string, ttl time.Duration) (string, error) {
	code, err := cryptox.GenerateNumericCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	rec := codeRecord{Code: code, ExpiresAt: v.now().Add(ttl)}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode code: %w", err)
	}

	if err := v.KV.Set(ctx, codeKey(namespace, email), raw, ttl+codeRetentionGrace); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

// Verify checks the submitted code against the pending one. Returns
// ErrCodeNotFound, ErrCodeExpired or ErrCodeMismatch on failure. The code
// stays pending on success.
func (v *VerificationCodes) Verify(ctx context.Context, namespace, email, submitted string) error {
	key := codeKey(namespace, email)
	raw, ok, err := v.KV.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}
	if !ok {
		return ErrCodeNotFound
	}

	var rec codeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("decode code: %w", err)
	}

	if !v.now().Before(rec.ExpiresAt) {
		if err := v.KV.Delete(ctx, key); err != nil {
			return fmt.Errorf("drop expired code: %w", err)
		}
		return ErrCodeExpired
	}
	if rec.Code != submitted {
		return ErrCodeMismatch
	}
	return nil
}

// Invalidate removes the pending code. Called after the dependent write
// (account creation, password update) has committed.
func (v *VerificationCodes) Invalidate(ctx context.Context, namespace, email string) error {
	return v.KV.Delete(ctx, codeKey(namespace, email))
}
