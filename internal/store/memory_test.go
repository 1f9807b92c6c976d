package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
	"github.com/serroba/shortdrop/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryClipboardStore(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and gets item", func(t *testing.T) {
		s := store.NewMemoryClipboardStore()
		item := &clipboard.Item{
			Code:        "1234",
			Content:     "hello",
			ContentType: clipboard.DefaultContentType,
			KeySource:   clipboard.KeyNone,
			Lifetime:    sharing.NewLifetime(created, sharing.ClipboardTTL),
		}

		require.NoError(t, s.Save(ctx, item))

		got, err := s.GetByCode(ctx, "1234")
		require.NoError(t, err)
		assert.Equal(t, item, got)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("rejects duplicate code and keeps first", func(t *testing.T) {
		s := store.NewMemoryClipboardStore()
		require.NoError(t, s.Save(ctx, &clipboard.Item{Code: "1234", Content: "first"}))

		err := s.Save(ctx, &clipboard.Item{Code: "1234", Content: "second"})

		require.ErrorIs(t, err, sharing.ErrDuplicateCode)
		got, _ := s.GetByCode(ctx, "1234")
		assert.Equal(t, "first", got.Content)
	})

	t.Run("returns not found for missing code", func(t *testing.T) {
		s := store.NewMemoryClipboardStore()

		got, err := s.GetByCode(ctx, "9999")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, sharing.ErrRecordNotFound)
	})

	t.Run("delete frees the code", func(t *testing.T) {
		s := store.NewMemoryClipboardStore()
		require.NoError(t, s.Save(ctx, &clipboard.Item{Code: "1234"}))

		require.NoError(t, s.Delete(ctx, "1234"))
		require.NoError(t, s.Delete(ctx, "1234"))

		assert.Equal(t, 0, s.Len())
		assert.NoError(t, s.Save(ctx, &clipboard.Item{Code: "1234"}))
	})

	t.Run("returned item is a copy", func(t *testing.T) {
		s := store.NewMemoryClipboardStore()
		require.NoError(t, s.Save(ctx, &clipboard.Item{Code: "1234", Content: "original"}))

		got, _ := s.GetByCode(ctx, "1234")
		got.Content = "mutated"

		again, _ := s.GetByCode(ctx, "1234")
		assert.Equal(t, "original", again.Content)
	})
}

func TestMemoryFileStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryFileStore()
	share := &files.Share{
		Code:        "2048",
		FileName:    "report.pdf",
		FilePath:    "shared/2048/report.pdf",
		FileSize:    42,
		ContentType: "application/pdf",
		Lifetime:    sharing.NewLifetime(created, 7*24*time.Hour),
	}

	require.NoError(t, s.Save(ctx, share))
	assert.ErrorIs(t, s.Save(ctx, share), sharing.ErrDuplicateCode)

	got, err := s.GetByCode(ctx, "2048")
	require.NoError(t, err)
	assert.Equal(t, share, got)

	require.NoError(t, s.Delete(ctx, "2048"))

	_, err = s.GetByCode(ctx, "2048")
	assert.ErrorIs(t, err, sharing.ErrRecordNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryURLStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryURLStore()
	url := &shortener.ShortURL{
		Code:        "docs",
		OriginalURL: "https://example.com/docs",
		Custom:      true,
		Lifetime:    sharing.NewLifetime(created, sharing.ShortURLTTL),
	}

	require.NoError(t, s.Save(ctx, url))
	assert.ErrorIs(t, s.Save(ctx, url), sharing.ErrDuplicateCode)

	got, err := s.GetByCode(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, url, got)

	require.NoError(t, s.Delete(ctx, "docs"))

	_, err = s.GetByCode(ctx, "docs")
	assert.ErrorIs(t, err, sharing.ErrRecordNotFound)
}
