// Package sealer encrypts clipboard content into self-contained tokens.
//
// A token is base64url(version | unix seconds | nonce | ciphertext). The
// version and timestamp header is authenticated as additional data, so a token
// carries everything needed to open it except the key.
package sealer

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	version    byte = 0x01
	headerSize      = 1 + 8
	KeySize         = chacha20poly1305.KeySize
)

var (
	ErrMalformed  = errors.New("malformed token")
	ErrVersion    = errors.New("unsupported token version")
	ErrAuthFailed = errors.New("message authentication failed")
)

var encoding = base64.RawURLEncoding

// Sealer seals and opens tokens with either a caller secret or the system key.
type Sealer struct {
	systemKey []byte
	now       func() time.Time
}

// New creates a Sealer around a 32-byte system key.
func New(systemKey []byte) (*Sealer, error) {
	if len(systemKey) != KeySize {
		return nil, fmt.Errorf("system key must be %d bytes, got %d", KeySize, len(systemKey))
	}

	return &Sealer{systemKey: systemKey, now: time.Now}, nil
}

// ParseKey decodes a base64 (url or std alphabet, padded or not) 32-byte key.
func ParseKey(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.StdEncoding,
	} {
		if key, err := enc.DecodeString(s); err == nil && len(key) == KeySize {
			return key, nil
		}
	}

	return nil, fmt.Errorf("encryption key must be base64 of %d bytes", KeySize)
}

// GenerateKey returns a fresh random key in the format ParseKey accepts.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	return encoding.EncodeToString(key), nil
}

// DeriveKey hashes caller key material into a 256-bit key.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func (s *Sealer) keyFor(secret string) []byte {
	if secret != "" {
		return DeriveKey(secret)
	}

	return s.systemKey
}

// Seal encrypts content. An empty secret selects the system key.
func (s *Sealer) Seal(content, secret string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.keyFor(secret))
	if err != nil {
		return "", err
	}

	header := make([]byte, headerSize, headerSize+aead.NonceSize()+len(content)+aead.Overhead())
	header[0] = version
	binary.BigEndian.PutUint64(header[1:], uint64(s.now().Unix()))

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	out := append(header, nonce...)
	out = aead.Seal(out, nonce, []byte(content), out[:headerSize])

	return encoding.EncodeToString(out), nil
}

// Open decrypts a token produced by Seal with the same secret.
func (s *Sealer) Open(token, secret string) (string, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	aead, err := chacha20poly1305.NewX(s.keyFor(secret))
	if err != nil {
		return "", err
	}

	if len(raw) < headerSize+aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}

	if raw[0] != version {
		return "", ErrVersion
	}

	header := raw[:headerSize]
	nonce := raw[headerSize : headerSize+aead.NonceSize()]
	ciphertext := raw[headerSize+aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return "", ErrAuthFailed
	}

	return string(plain), nil
}

// IssuedAt reads the timestamp embedded in a token without verifying it.
func IssuedAt(token string) (time.Time, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil || len(raw) < headerSize {
		return time.Time{}, ErrMalformed
	}

	return time.Unix(int64(binary.BigEndian.Uint64(raw[1:headerSize])), 0).UTC(), nil
}
