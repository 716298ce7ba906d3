package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "taskboard-test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	s, err := jwtx.NewSignerEdDSA(kid, priv)
	require.NoError(t, err)
	return s
}

func TestEdDSASignAndVerify(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, jwtx.Thumbprint(signer.PublicKey()), signer.KID())

	claims := jwtx.NewAccessClaims("user-1", "token-1", "Ada", testIssuer, time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	require.Equal(t, 1, keys.Len())

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer, 0).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "token-1", got.ID)
	require.Equal(t, "Ada", got.Name)
	require.Equal(t, testIssuer, got.Issuer)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "primary")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifierEdDSA(keys, testIssuer, time.Second)

	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}

	t.Run("wrong issuer", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "t", "", "someone-else", time.Hour, time.Now()))
		_, err := verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Minute, time.Now().Add(-time.Hour)))
		_, err := verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Hour, time.Now().Add(time.Hour)))
		_, err := verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrNotYetValid)
	})

	t.Run("missing token id", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "", "", testIssuer, time.Hour, time.Now()))
		_, err := verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "other")
		tok, err := other.Sign(jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("forged with known kid", func(t *testing.T) {
		forger := newSigner(t, "primary")
		tok, err := forger.Sign(jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("alg none", func(t *testing.T) {
		c := jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Hour, time.Now())
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, c)
		tok.Header["kid"] = "primary"
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "t", "", testIssuer, time.Hour, time.Now()))
		parts := strings.Split(tok, ".")
		other := sign(jwtx.NewAccessClaims("admin", "t", "", testIssuer, time.Hour, time.Now()))
		parts[1] = strings.Split(other, ".")[1]

		_, err := verifier.Verify(strings.Join(parts, "."))
		require.Error(t, err)
	})
}

func TestKeySetRemove(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	_, err := keys.Get("k1")
	require.NoError(t, err)

	keys.Remove("k1")
	_, err = keys.Get("k1")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}
