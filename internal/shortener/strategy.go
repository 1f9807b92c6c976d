package shortener

import (
	"context"
	"errors"
	"fmt"

	"github.com/serroba/shortdrop/internal/sharing"
)

// Strategy decides which short path a URL gets.
type Strategy interface {
	Shorten(ctx context.Context, url string) (*ShortURL, error)
}

// Lookup resolves a code following the lazy expiry rules.
type Lookup func(ctx context.Context, code sharing.Code) (*ShortURL, error)

// TokenStrategy assigns a random URL-safe token, retrying on collision.
type TokenStrategy struct {
	store    Repository
	registry *sharing.Registry
	lookup   Lookup
	now      sharing.Clock
}

func NewTokenStrategy(store Repository, registry *sharing.Registry, lookup Lookup, now sharing.Clock) *TokenStrategy {
	return &TokenStrategy{
		store:    store,
		registry: registry,
		lookup:   lookup,
		now:      now,
	}
}

func (s *TokenStrategy) Shorten(ctx context.Context, url string) (*ShortURL, error) {
	shortURL := &ShortURL{
		OriginalURL: url,
		Lifetime:    sharing.NewLifetime(s.now(), sharing.ShortURLTTL),
	}

	probe := sharing.LiveProbe(func(ctx context.Context, code sharing.Code) error {
		_, err := s.lookup(ctx, code)
		return err
	})

	_, err := s.registry.Claim(ctx, probe, func(ctx context.Context, code sharing.Code) error {
		shortURL.Code = code
		return s.store.Save(ctx, shortURL)
	})
	if err != nil {
		return nil, err
	}

	return shortURL, nil
}

// CustomStrategy uses a caller-chosen path and fails if it is live elsewhere.
type CustomStrategy struct {
	store  Repository
	path   sharing.Code
	lookup Lookup
	now    sharing.Clock
}

func NewCustomStrategy(store Repository, path sharing.Code, lookup Lookup, now sharing.Clock) *CustomStrategy {
	return &CustomStrategy{
		store:  store,
		path:   path,
		lookup: lookup,
		now:    now,
	}
}

// ValidateCustomPath checks the alphabet and length of a custom path.
func ValidateCustomPath(path string) error {
	if !sharing.IsAlphanumeric(path) {
		return sharing.BadRequest("custom path can only contain letters and numbers")
	}

	if len(path) < MinCustomPathLength {
		return sharing.BadRequest(fmt.Sprintf("custom path must be at least %d characters", MinCustomPathLength))
	}

	if len(path) > MaxCustomPathLength {
		return sharing.BadRequest(fmt.Sprintf("custom path must be at most %d characters", MaxCustomPathLength))
	}

	return nil
}

func (s *CustomStrategy) Shorten(ctx context.Context, url string) (*ShortURL, error) {
	if err := ValidateCustomPath(string(s.path)); err != nil {
		return nil, err
	}

	_, err := s.lookup(ctx, s.path)
	if err == nil {
		return nil, sharing.Conflict("this custom path is already taken")
	}

	if k := sharing.KindOf(err); k != sharing.KindNotFound && k != sharing.KindExpired {
		return nil, err
	}

	shortURL := &ShortURL{
		Code:        s.path,
		OriginalURL: url,
		Custom:      true,
		Lifetime:    sharing.NewLifetime(s.now(), sharing.ShortURLTTL),
	}

	if err := s.store.Save(ctx, shortURL); err != nil {
		if errors.Is(err, sharing.ErrDuplicateCode) {
			return nil, sharing.Conflict("this custom path is already taken")
		}

		return nil, sharing.Storage("failed to create short url", err)
	}

	return shortURL, nil
}
