package store

import (
	"context"
	"sync"

	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
)

// table is an in-memory keyed table with insert-if-absent semantics,
// mirroring a primary key constraint on the code column.
type table[V any] struct {
	mu   sync.RWMutex
	rows map[sharing.Code]V
}

func newTable[V any]() *table[V] {
	return &table[V]{rows: make(map[sharing.Code]V)}
}

func (t *table[V]) insert(code sharing.Code, v V) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[code]; ok {
		return sharing.ErrDuplicateCode
	}

	t.rows[code] = v

	return nil
}

func (t *table[V]) get(code sharing.Code) (*V, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[code]
	if !ok {
		return nil, sharing.ErrRecordNotFound
	}

	return &v, nil
}

func (t *table[V]) delete(code sharing.Code) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rows, code)
}

func (t *table[V]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rows)
}

// MemoryClipboardStore is an in-memory clipboard.Repository.
type MemoryClipboardStore struct {
	items *table[clipboard.Item]
}

func NewMemoryClipboardStore() *MemoryClipboardStore {
	return &MemoryClipboardStore{items: newTable[clipboard.Item]()}
}

func (m *MemoryClipboardStore) Save(_ context.Context, item *clipboard.Item) error {
	return m.items.insert(item.Code, *item)
}

func (m *MemoryClipboardStore) GetByCode(_ context.Context, code sharing.Code) (*clipboard.Item, error) {
	return m.items.get(code)
}

func (m *MemoryClipboardStore) Delete(_ context.Context, code sharing.Code) error {
	m.items.delete(code)
	return nil
}

func (m *MemoryClipboardStore) Len() int {
	return m.items.len()
}

// MemoryFileStore is an in-memory files.Repository.
type MemoryFileStore struct {
	shares *table[files.Share]
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{shares: newTable[files.Share]()}
}

func (m *MemoryFileStore) Save(_ context.Context, share *files.Share) error {
	return m.shares.insert(share.Code, *share)
}

func (m *MemoryFileStore) GetByCode(_ context.Context, code sharing.Code) (*files.Share, error) {
	return m.shares.get(code)
}

func (m *MemoryFileStore) Delete(_ context.Context, code sharing.Code) error {
	m.shares.delete(code)
	return nil
}

func (m *MemoryFileStore) Len() int {
	return m.shares.len()
}

// MemoryURLStore is an in-memory shortener.Repository.
type MemoryURLStore struct {
	urls *table[shortener.ShortURL]
}

func NewMemoryURLStore() *MemoryURLStore {
	return &MemoryURLStore{urls: newTable[shortener.ShortURL]()}
}

func (m *MemoryURLStore) Save(_ context.Context, shortURL *shortener.ShortURL) error {
	return m.urls.insert(shortURL.Code, *shortURL)
}

func (m *MemoryURLStore) GetByCode(_ context.Context, code sharing.Code) (*shortener.ShortURL, error) {
	return m.urls.get(code)
}

func (m *MemoryURLStore) Delete(_ context.Context, code sharing.Code) error {
	m.urls.delete(code)
	return nil
}

var (
	_ clipboard.Repository = (*MemoryClipboardStore)(nil)
	_ files.Repository     = (*MemoryFileStore)(nil)
	_ shortener.Repository = (*MemoryURLStore)(nil)
)
