package shortener

import (
	"context"
	"errors"

	"github.com/serroba/shortdrop/internal/sharing"
	"go.uber.org/zap"
)

// Service creates short URLs and resolves them for redirects.
type Service struct {
	store    Repository
	registry *sharing.Registry
	now      sharing.Clock
	logger   *zap.Logger
}

func NewService(store Repository, registry *sharing.Registry, now sharing.Clock, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		now:      now,
		logger:   logger,
	}
}

// StrategyFor picks the custom strategy when a path is given, random tokens otherwise.
func (s *Service) StrategyFor(customPath string) Strategy {
	if customPath != "" {
		return NewCustomStrategy(s.store, sharing.Code(customPath), s.Resolve, s.now)
	}

	return NewTokenStrategy(s.store, s.registry, s.Resolve, s.now)
}

// Shorten maps url to a custom or random short path. The URL itself is
// accepted as given; only emptiness is checked.
func (s *Service) Shorten(ctx context.Context, url, customPath string) (*ShortURL, error) {
	if url == "" {
		return nil, sharing.BadRequest("url is required")
	}

	return s.StrategyFor(customPath).Shorten(ctx, url)
}

// Resolve returns the live mapping for code. Expired mappings are deleted.
func (s *Service) Resolve(ctx context.Context, code sharing.Code) (*ShortURL, error) {
	shortURL, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, sharing.ErrRecordNotFound) {
		return nil, sharing.NotFound("short url not found")
	}

	if err != nil {
		return nil, sharing.Storage("failed to load short url", err)
	}

	now := s.now()
	if shortURL.LiveAt(now) {
		return shortURL, nil
	}

	if err := s.store.Delete(ctx, code); err != nil {
		s.logger.Warn("failed to delete expired short url",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	s.logger.Debug("short url expired",
		zap.String("code", string(code)),
		zap.Duration("expiredFor", now.Sub(shortURL.ExpiresAt)),
	)

	return nil, sharing.Expired("short url has expired")
}
