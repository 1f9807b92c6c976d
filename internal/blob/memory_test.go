package blob_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/serroba/shortdrop/internal/blob"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := blob.NewMemoryStore("http://blobs.local")

	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.Put(ctx, "shared/1/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := s.Put(ctx, "shared/1/a.txt", strings.NewReader("bye"), 3, "text/plain")
		assert.ErrorIs(t, err, sharing.ErrBlobExists)

		data, ok := s.Object("shared/1/a.txt")
		require.True(t, ok)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("rejects short bodies", func(t *testing.T) {
		err := s.Put(ctx, "shared/2/b.txt", strings.NewReader("abc"), 10, "text/plain")
		assert.Error(t, err)
	})

	t.Run("signs existing objects only", func(t *testing.T) {
		url, err := s.SignURL(ctx, "shared/1/a.txt", time.Hour)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://blobs.local/shared/1/a.txt?"))

		_, err = s.SignURL(ctx, "shared/9/missing.txt", time.Hour)
		assert.Error(t, err)
	})

	t.Run("delete removes", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "shared/1/a.txt"))
		assert.Equal(t, 0, s.Len())
	})
}

func TestMemoryStore_ServeHTTP(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := blob.NewMemoryStoreWithClock("http://local/blobs", func() time.Time { return now })

	require.NoError(t, s.Put(ctx, "shared/0007/my notes.txt", strings.NewReader("hello"), 5, "text/plain"))

	signed, err := s.SignURL(ctx, "shared/0007/my notes.txt", time.Hour)
	require.NoError(t, err)

	target, ok := strings.CutPrefix(signed, "http://local/blobs/")
	require.True(t, ok, signed)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		http.StripPrefix("/blobs/", s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blobs/"+path, nil))

		return w
	}

	t.Run("serves a signed link", func(t *testing.T) {
		w := get(target)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello", w.Body.String())
		assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	})

	t.Run("refuses unsigned links", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get("shared/0007/my%20notes.txt").Code)
	})

	t.Run("refuses a link once it expires", func(t *testing.T) {
		now = now.Add(time.Hour)
		defer func() { now = now.Add(-time.Hour) }()

		assert.Equal(t, http.StatusForbidden, get(target).Code)
	})

	t.Run("missing object", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "shared/0007/my notes.txt"))

		assert.Equal(t, http.StatusNotFound, get(target).Code)
	})
}
