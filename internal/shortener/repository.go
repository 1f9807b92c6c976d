package shortener

import (
	"context"

	"github.com/serroba/shortdrop/internal/sharing"
)

// Repository defines storage operations for short URLs.
type Repository interface {
	// Save inserts a mapping. Returns sharing.ErrDuplicateCode if the path is held.
	Save(ctx context.Context, shortURL *ShortURL) error
	// GetByCode returns sharing.ErrRecordNotFound when nothing matches.
	GetByCode(ctx context.Context, code sharing.Code) (*ShortURL, error)
	Delete(ctx context.Context, code sharing.Code) error
}
