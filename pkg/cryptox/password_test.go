package cryptox

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	pepperPath := filepath.Join(os.TempDir(), "eventyfast-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "abc123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100) + "1"},
		{"unicode password", "mot2passé"},
		{"whitespace password", "   spaces 1  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NotEqual(t, tt.password, hash)

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("abc123", hash))
	require.ErrorIs(t, VerifyPassword("abc124", hash), ErrPasswordMismatch)
	require.Error(t, VerifyPassword("abc123", "not-a-phc-hash"))
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPassword("abc123")
	require.NoError(t, err)
	b, err := HashPassword("abc123")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "two hashes of the same password should differ")
}

func TestGenerateNumericCode(t *testing.T) {
	seen := map[string]bool{}
	for range 200 {
		code, err := GenerateNumericCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
		seen[code] = true
	}
	require.Greater(t, len(seen), 100, "codes should not repeat constantly")
}
