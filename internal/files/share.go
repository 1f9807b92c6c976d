package files

import (
	"context"
	"io"
	"time"

	"github.com/serroba/shortdrop/internal/sharing"
)

const (
	MaxFileSize   int64 = 50 << 20
	MaxExpiryDays       = 365
	LookupURLTTL        = time.Hour
)

// Share is the metadata row for an uploaded file.
type Share struct {
	Code        sharing.Code
	FileName    string
	FilePath    string
	FileSize    int64
	ContentType string
	sharing.Lifetime
}

// Repository persists share metadata.
type Repository interface {
	// Save inserts a share. Returns sharing.ErrDuplicateCode if the code is held.
	Save(ctx context.Context, share *Share) error
	// GetByCode returns sharing.ErrRecordNotFound when nothing matches.
	GetByCode(ctx context.Context, code sharing.Code) (*Share, error)
	Delete(ctx context.Context, code sharing.Code) error
}

// BlobStore is the object storage the file bytes live in.
type BlobStore interface {
	// EnsureBucket creates the private bucket if it does not exist yet.
	EnsureBucket(ctx context.Context) error
	// Put stores body at path without overwriting. Returns sharing.ErrBlobExists on collision.
	Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) error
	// SignURL issues a time-limited download URL for path.
	SignURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, path string) error
}
