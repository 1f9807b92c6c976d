package clipboard

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/shortdrop/internal/sharing"
	"go.uber.org/zap"
)

// SendInput is what a caller submits to the clipboard.
type SendInput struct {
	Content        string
	ContentType    string
	IsConfidential bool
	EncryptionKey  string
}

// Receipt tells the sender how to fetch the item back.
type Receipt struct {
	Code      sharing.Code
	ExpiresAt time.Time
}

// Received is the decrypted view of an item.
type Received struct {
	Content        string
	ContentType    string
	IsConfidential bool
	CreatedAt      time.Time
}

// Service implements send and receive over a Repository.
type Service struct {
	repo     Repository
	cipher   Cipher
	registry *sharing.Registry
	now      sharing.Clock
	logger   *zap.Logger
}

// NewService creates a clipboard service.
func NewService(
	repo Repository,
	cipher Cipher,
	registry *sharing.Registry,
	now sharing.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cipher:   cipher,
		registry: registry,
		now:      now,
		logger:   logger,
	}
}

// Send stores content under a fresh code for ClipboardTTL.
func (s *Service) Send(ctx context.Context, in SendInput) (*Receipt, error) {
	item := &Item{
		Content:        in.Content,
		ContentType:    in.ContentType,
		IsConfidential: in.IsConfidential,
		KeySource:      KeyNone,
		Lifetime:       sharing.NewLifetime(s.now(), sharing.ClipboardTTL),
	}

	if item.ContentType == "" {
		item.ContentType = DefaultContentType
	}

	if in.IsConfidential {
		sealed, err := s.cipher.Seal(in.Content, in.EncryptionKey)
		if err != nil {
			return nil, sharing.Storage("failed to encrypt content", err)
		}

		item.Content = sealed
		item.KeySource = KeySystem

		if in.EncryptionKey != "" {
			item.KeySource = KeyUser
		}
	}

	code, err := s.registry.Claim(ctx, sharing.LiveProbe(s.lookup), func(ctx context.Context, code sharing.Code) error {
		item.Code = code
		return s.repo.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{Code: code, ExpiresAt: item.ExpiresAt}, nil
}

// Receive looks up a live item and opens it when confidential.
func (s *Service) Receive(ctx context.Context, code sharing.Code, key string) (*Received, error) {
	// A code outside the 4 digit space can never match a record.
	if !sharing.IsNumericCode(string(code)) {
		return nil, sharing.NotFound("clipboard content not found")
	}

	item, err := s.live(ctx, code)
	if err != nil {
		return nil, err
	}

	content := item.Content

	if item.IsConfidential {
		if key == "" {
			return nil, sharing.KeyRequired("decryption key required for confidential content")
		}

		content, err = s.cipher.Open(item.Content, key)
		if err != nil {
			return nil, sharing.DecryptionFailed(err)
		}
	}

	return &Received{
		Content:        content,
		ContentType:    item.ContentType,
		IsConfidential: item.IsConfidential,
		CreatedAt:      item.CreatedAt,
	}, nil
}

// live returns the item under code, deleting it if it has expired.
func (s *Service) live(ctx context.Context, code sharing.Code) (*Item, error) {
	item, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, sharing.ErrRecordNotFound) {
		return nil, sharing.NotFound("clipboard content not found")
	}

	if err != nil {
		return nil, sharing.Storage("failed to load clipboard content", err)
	}

	if !item.LiveAt(s.now()) {
		if err := s.repo.Delete(ctx, code); err != nil {
			s.logger.Warn("failed to delete expired clipboard item",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return nil, sharing.Expired("clipboard content has expired")
	}

	return item, nil
}

func (s *Service) lookup(ctx context.Context, code sharing.Code) error {
	_, err := s.live(ctx, code)
	return err
}
