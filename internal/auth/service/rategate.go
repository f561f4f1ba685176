package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Dorian9120/eventyfast/pkg/kvx"
)

const (
	maxLoginAttempts = 3
	lockoutCooldown  = 5 * time.Minute

	maxMutations   = 3
	mutationWindow = time.Hour
)

// lockoutKey namespaces per-email lockout records in the KV store.
func lockoutKey(email string) string {
	return "login_attempts:" + strings.ToLower(email)
}

type lockoutRecord struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

// RateGate tracks failed logins per email and meters self-service account
// mutations. Lockout state lives in the KV store so it survives nothing
// more than it has to; mutation state lives on the account row.
type RateGate struct {
	KV  kvx.Store
	Now func() time.Time // defaults to time.Now
}

func (g *RateGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// CheckLogin reports whether the email is currently locked out. When locked,
// retryAfter says how long until the window resets.
func (g *RateGate) CheckLogin(ctx context.Context, email string) (locked bool, retryAfter time.Duration, err error) {
	raw, ok, err := g.KV.Get(ctx, lockoutKey(email))
	if err != nil {
		return false, 0, fmt.Errorf("read lockout: %w", err)
	}
	if !ok {
		return false, 0, nil
	}

	var rec lockoutRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return false, 0, fmt.Errorf("decode lockout: %w", err)
	}

	now := g.now()
	if !now.Before(rec.ResetAt) {
		// Window elapsed; clear lazily.
		if err := g.KV.Delete(ctx, lockoutKey(email)); err != nil {
			return false, 0, fmt.Errorf("clear lockout: %w", err)
		}
		return false, 0, nil
	}

	if rec.Count >= maxLoginAttempts {
		return true, rec.ResetAt.Sub(now), nil
	}
	return false, 0, nil
}

// RecordFailure bumps the failure counter for the email. The first failure
// starts the cooldown window; subsequent failures within it accumulate.
func (g *RateGate) RecordFailure(ctx context.Context, email string) error {
	key := lockoutKey(email)
	now := g.now()

	rec := lockoutRecord{Count: 0, ResetAt: now.Add(lockoutCooldown)}
	if raw, ok, err := g.KV.Get(ctx, key); err != nil {
		return fmt.Errorf("read lockout: %w", err)
	} else if ok {
		var existing lockoutRecord
		if err := json.Unmarshal(raw, &existing); err == nil && now.Before(existing.ResetAt) {
			rec = existing
		}
	}
	rec.Count++

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode lockout: %w", err)
	}
	if err := g.KV.Set(ctx, key, raw, rec.ResetAt.Sub(now)); err != nil {
		return fmt.Errorf("store lockout: %w", err)
	}
	return nil
}

// Clear removes any lockout state for the email, called on successful login.
func (g *RateGate) Clear(ctx context.Context, email string) error {
	return g.KV.Delete(ctx, lockoutKey(email))
}

// TakeMutation decides whether one more self-service change is allowed given
// the account's persisted counter state. It is a pure function: callers
// persist the returned state after an allowed change. Every allowed change
// refreshes the window timestamp, so the hour slides from the most recent
// update. A rejected change returns the input state unchanged.
func TakeMutation(count int, windowStart *time.Time, now time.Time) (allowed bool, newCount int, newStart time.Time) {
	if windowStart == nil || now.Sub(*windowStart) >= mutationWindow {
		return true, 1, now
	}
	if count >= maxMutations {
		return false, count, *windowStart
	}
	return true, count + 1, now
}
