package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		ok       bool
	}{
		{"abc", false},    // too short
		{"abcdef", false}, // no digit
		{"123456", false}, // no letter
		{"abc123", true},
		{"P@ssw0rd", true},
		{"mot2passé", true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := validatePassword(tt.password)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidPassword)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, validateUsername("ab"), ErrInvalidUsername)
	require.ErrorIs(t, validateUsername("abcdefghijklmnop"), ErrInvalidUsername)
	require.NoError(t, validateUsername("abc"))
	require.NoError(t, validateUsername("fifteen_chars_x"))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.co", "user.name@example.com", "us-er_1@sub.example.org"}
	for _, e := range valid {
		require.NoError(t, validateEmail(e), e)
	}

	invalid := []string{"", "plain", "a@b", "a b@c.com", "a@b.c"}
	for _, e := range invalid {
		require.ErrorIs(t, validateEmail(e), ErrInvalidEmail, e)
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	require.NoError(t, validatePhone("0612345678"))
	require.NoError(t, validatePhone("336123456789012"))
	require.ErrorIs(t, validatePhone("061234567"), ErrInvalidPhone)        // 9 digits
	require.ErrorIs(t, validatePhone("0612345678901234"), ErrInvalidPhone) // 16 digits
	require.ErrorIs(t, validatePhone("06 12 34 56 78"), ErrInvalidPhone)
}

func TestValidateAgeAnniversary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// 16th birthday is tomorrow: one day short.
	require.ErrorIs(t, validateAge(time.Date(2010, 8, 31, 0, 0, 0, 0, time.UTC), now), ErrTooYoung)

	// 16th birthday is today: allowed.
	require.NoError(t, validateAge(time.Date(2010, 8, 30, 0, 0, 0, 0, time.UTC), now))

	// Comfortably old enough.
	require.NoError(t, validateAge(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), now))
}
