package sharing

import (
	"context"
	"errors"
)

// DefaultAttempts bounds how many candidates Claim tries before giving up.
// The numeric spaces hold 10,000 (or 9,000) codes, so hitting the bound means
// the space is nearly full.
const DefaultAttempts = 32

// Probe reports whether a code is held by a live record. Implementations are
// expected to purge an expired holder and report the code as free.
type Probe func(ctx context.Context, code Code) (taken bool, err error)

// Insert persists the record under code. It returns ErrDuplicateCode when a
// concurrent writer claimed the same code between probe and insert.
type Insert func(ctx context.Context, code Code) error

// Registry hands out unique codes from one code space.
type Registry struct {
	generate CodeGenerator
	attempts int
}

// NewRegistry creates a registry over the given generator.
func NewRegistry(generate CodeGenerator, attempts int) *Registry {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	return &Registry{generate: generate, attempts: attempts}
}

// Generate draws a single candidate without any uniqueness check.
func (r *Registry) Generate() Code {
	return r.generate()
}

// Claim loops until a free code is found and inserted.
//
// The probe alone leaves a window between check and insert; two concurrent
// requests can pick the same free code. The store's unique constraint on the
// code column closes it: the loser's insert returns ErrDuplicateCode and Claim
// moves on to the next candidate.
func (r *Registry) Claim(ctx context.Context, probe Probe, insert Insert) (Code, error) {
	for range r.attempts {
		code := r.generate()

		taken, err := probe(ctx, code)
		if err != nil {
			return "", Storage("failed to check code", err)
		}

		if taken {
			continue
		}

		err = insert(ctx, code)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}

		if err != nil {
			var se *Error
			if errors.As(err, &se) {
				return "", err
			}

			return "", Storage("failed to save record", err)
		}

		return code, nil
	}

	return "", Storage("code space exhausted", ErrSpaceExhausted)
}

// LiveProbe adapts a lookup that follows the lazy expiry rules (NotFound for
// missing, Expired after purging a dead record) into a Probe.
func LiveProbe(lookup func(ctx context.Context, code Code) error) Probe {
	return func(ctx context.Context, code Code) (bool, error) {
		err := lookup(ctx, code)
		if err == nil {
			return true, nil
		}

		switch KindOf(err) {
		case KindNotFound, KindExpired:
			return false, nil
		default:
			return false, err
		}
	}
}
