package clipboard

import (
	"context"

	"github.com/serroba/shortdrop/internal/sharing"
)

// KeySource records which key sealed a confidential item. The key itself is
// never stored.
type KeySource string

const (
	KeyNone   KeySource = "none"
	KeySystem KeySource = "system"
	KeyUser   KeySource = "user"
)

const DefaultContentType = "text"

// Item is one clipboard entry. Content holds the sealed token when the item
// is confidential.
type Item struct {
	Code           sharing.Code
	Content        string
	ContentType    string
	IsConfidential bool
	KeySource      KeySource
	sharing.Lifetime
}

// Repository persists clipboard items.
type Repository interface {
	// Save inserts a new item. Returns sharing.ErrDuplicateCode if the code is held.
	Save(ctx context.Context, item *Item) error
	// GetByCode returns sharing.ErrRecordNotFound when nothing matches.
	GetByCode(ctx context.Context, code sharing.Code) (*Item, error)
	Delete(ctx context.Context, code sharing.Code) error
}

// Cipher seals and opens confidential content. An empty secret selects the system key.
type Cipher interface {
	Seal(content, secret string) (string, error)
	Open(token, secret string) (string, error)
}
