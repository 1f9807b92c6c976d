package sealer_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/serroba/shortdrop/internal/sealer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealer(t *testing.T) *sealer.Sealer {
	t.Helper()

	key, err := sealer.GenerateKey()
	require.NoError(t, err)

	raw, err := sealer.ParseKey(key)
	require.NoError(t, err)

	s, err := sealer.New(raw)
	require.NoError(t, err)

	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	s := newSealer(t)

	t.Run("user secret", func(t *testing.T) {
		token, err := s.Seal("secret", "k1")
		require.NoError(t, err)
		assert.NotContains(t, token, "secret")

		got, err := s.Open(token, "k1")
		require.NoError(t, err)
		assert.Equal(t, "secret", got)
	})

	t.Run("system key", func(t *testing.T) {
		token, err := s.Seal("hello", "")
		require.NoError(t, err)

		got, err := s.Open(token, "")
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})

	t.Run("empty content", func(t *testing.T) {
		token, err := s.Seal("", "k1")
		require.NoError(t, err)

		got, err := s.Open(token, "k1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("tokens differ for the same input", func(t *testing.T) {
		a, _ := s.Seal("same", "k1")
		b, _ := s.Seal("same", "k1")
		assert.NotEqual(t, a, b)
	})
}

func TestSealer_OpenFailures(t *testing.T) {
	s := newSealer(t)

	token, err := s.Seal("secret", "k1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := s.Open(token, "k2")
		assert.ErrorIs(t, err, sealer.ErrAuthFailed)
	})

	t.Run("system key on user token", func(t *testing.T) {
		_, err := s.Open(token, "")
		assert.ErrorIs(t, err, sealer.ErrAuthFailed)
	})

	t.Run("user secret on system token", func(t *testing.T) {
		sys, _ := s.Seal("secret", "")
		_, err := s.Open(sys, "k1")
		assert.ErrorIs(t, err, sealer.ErrAuthFailed)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := s.Open("***", "k1")
		assert.ErrorIs(t, err, sealer.ErrMalformed)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := s.Open(token[:10], "k1")
		assert.ErrorIs(t, err, sealer.ErrMalformed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)

		raw[len(raw)-20] ^= 0xff

		_, err = s.Open(base64.RawURLEncoding.EncodeToString(raw), "k1")
		assert.ErrorIs(t, err, sealer.ErrAuthFailed)
	})

	t.Run("tampered timestamp", func(t *testing.T) {
		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)

		raw[4] ^= 0x01

		_, err = s.Open(base64.RawURLEncoding.EncodeToString(raw), "k1")
		assert.ErrorIs(t, err, sealer.ErrAuthFailed)
	})
}

func TestIssuedAt(t *testing.T) {
	s := newSealer(t)

	before := time.Now().Add(-time.Second)
	token, err := s.Seal("x", "")
	require.NoError(t, err)

	at, err := sealer.IssuedAt(token)
	require.NoError(t, err)
	assert.True(t, at.After(before))
}

func TestParseKey(t *testing.T) {
	key, err := sealer.GenerateKey()
	require.NoError(t, err)

	raw, err := sealer.ParseKey(key)
	require.NoError(t, err)
	assert.Len(t, raw, sealer.KeySize)

	_, err = sealer.ParseKey("short")
	assert.Error(t, err)

	_, err = sealer.New([]byte(strings.Repeat("a", 16)))
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	assert.Len(t, sealer.DeriveKey("k1"), sealer.KeySize)
	assert.Equal(t, sealer.DeriveKey("k1"), sealer.DeriveKey("k1"))
	assert.NotEqual(t, sealer.DeriveKey("k1"), sealer.DeriveKey("k2"))
}
