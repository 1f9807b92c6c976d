package sharing_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericCodes(t *testing.T) {
	gen, err := sharing.NumericCodes()
	require.NoError(t, err)

	for range 500 {
		code := gen()
		assert.True(t, sharing.IsNumericCode(string(code)), "code %q", code)
	}
}

func TestNoLeadingZeroCodes(t *testing.T) {
	gen, err := sharing.NoLeadingZeroCodes()
	require.NoError(t, err)

	for range 500 {
		code := string(gen())
		require.True(t, sharing.IsNumericCode(code))
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestDigitCodesReturnPromptly(t *testing.T) {
	generators := map[string]func() (sharing.CodeGenerator, error){
		"numeric":         sharing.NumericCodes,
		"no leading zero": sharing.NoLeadingZeroCodes,
	}

	for name, newGen := range generators {
		t.Run(name, func(t *testing.T) {
			gen, err := newGen()
			require.NoError(t, err)

			done := make(chan sharing.Code, 1)

			go func() { done <- gen() }()

			select {
			case code := <-done:
				assert.True(t, sharing.IsNumericCode(string(code)))
			case <-time.After(2 * time.Second):
				t.Fatal("generator did not return a code")
			}
		})
	}
}

func TestNumericCodesCoverSpace(t *testing.T) {
	gen, err := sharing.NoLeadingZeroCodes()
	require.NoError(t, err)

	firsts := make(map[byte]struct{})

	for range 2000 {
		firsts[gen()[0]] = struct{}{}
	}

	assert.Len(t, firsts, 9)
}

func TestTokenCodes(t *testing.T) {
	gen, err := sharing.TokenCodes(8)
	require.NoError(t, err)

	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

	seen := make(map[sharing.Code]struct{})

	for range 100 {
		code := gen()
		assert.Regexp(t, urlSafe, string(code))
		seen[code] = struct{}{}
	}

	assert.Len(t, seen, 100)
}

func TestIsNumericCode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0000", true},
		{"1234", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"١٢٣٤", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sharing.IsNumericCode(tt.in))
		})
	}
}

func TestIsAlphanumeric(t *testing.T) {
	assert.True(t, sharing.IsAlphanumeric("abc123XYZ"))
	assert.False(t, sharing.IsAlphanumeric(""))
	assert.False(t, sharing.IsAlphanumeric("ab-c"))
	assert.False(t, sharing.IsAlphanumeric("ab c"))
	assert.False(t, sharing.IsAlphanumeric("café"))
}
