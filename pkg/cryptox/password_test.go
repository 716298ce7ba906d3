package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_PHCFormat(t *testing.T) {
	t.Parallel()
	h := NewHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Equal(t, "m=19456,t=2,p=1", parts[3])

			require.NoError(t, h.Verify(tt.password, hash))
			require.False(t, h.NeedsRehash(hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	t.Parallel()
	h := NewHasher("pepper")

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify("same", a))
	require.NoError(t, h.Verify("same", b))
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()
	h := NewHasher("pepper")

	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		require.ErrorIs(t, h.Verify(wrong, hash), ErrMismatch, "password %q", wrong)
	}
}

func TestVerify_PepperMatters(t *testing.T) {
	t.Parallel()

	hash, err := NewHasher("first").Hash("secret-password")
	require.NoError(t, err)

	require.ErrorIs(t, NewHasher("second").Verify("secret-password", hash), ErrMismatch)
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewHasher("pepper")

	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"broken bcrypt", "$2y$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, h.Verify("password", tt.hash), ErrMalformedHash)
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	t.Parallel()
	h := NewHasher("pepper")

	legacy, err := bcrypt.GenerateFromPassword([]byte("imported-password"), bcrypt.MinCost)
	require.NoError(t, err)

	// Hashes from the previous system use the $2y$ prefix.
	encoded := "$2y$" + strings.TrimPrefix(string(legacy), "$2a$")

	require.NoError(t, h.Verify("imported-password", encoded))
	require.ErrorIs(t, h.Verify("other-password", encoded), ErrMismatch)
	require.True(t, h.NeedsRehash(encoded))
}

func TestNeedsRehash_WeakerParameters(t *testing.T) {
	t.Parallel()

	require.True(t, NewHasher("").NeedsRehash("$argon2id$v=19$m=4096,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		p, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, p, 16)
		for _, c := range p {
			require.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
		}
		require.False(t, seen[p], "duplicate password generated")
		seen[p] = true
	}
}
