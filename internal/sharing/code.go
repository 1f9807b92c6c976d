package sharing

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/jaevor/go-nanoid"
)

// Code is the short public identifier of a shared resource.
type Code string

// CodeGenerator produces a candidate code drawn from a code space.
type CodeGenerator func() Code

// NumericCodes returns a generator of 4 ASCII digit codes, uniform over 0000-9999.
func NumericCodes() (CodeGenerator, error) {
	return digitCodes(0, 10000)
}

// NoLeadingZeroCodes returns a generator uniform over 1000-9999.
func NoLeadingZeroCodes() (CodeGenerator, error) {
	return digitCodes(1000, 9000)
}

// digitCodes draws uniformly from [base, base+n) and formats as four digits.
func digitCodes(base, n int64) (CodeGenerator, error) {
	limit := big.NewInt(n)

	if _, err := rand.Int(rand.Reader, limit); err != nil {
		return nil, fmt.Errorf("numeric code generator: %w", err)
	}

	return func() Code {
		v, err := rand.Int(rand.Reader, limit)
		// crypto/rand only fails when the platform source is broken.
		if err != nil {
			panic(fmt.Sprintf("numeric code generator: %v", err))
		}

		return Code(fmt.Sprintf("%04d", base+v.Int64()))
	}, nil
}

// TokenCodes returns a generator of URL-safe nanoid tokens of the given length.
// Each character carries 6 bits, so the default of 8 yields 48 bits.
func TokenCodes(length int) (CodeGenerator, error) {
	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("token generator: %w", err)
	}

	return func() Code { return Code(gen()) }, nil
}

// IsNumericCode reports whether c is exactly four ASCII digits.
func IsNumericCode(c string) bool {
	if len(c) != 4 {
		return false
	}

	for i := 0; i < len(c); i++ {
		if c[i] < '0' || c[i] > '9' {
			return false
		}
	}

	return true
}

// IsAlphanumeric reports whether s is non-empty and made only of ASCII letters and digits.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		default:
			return false
		}
	}

	return true
}
