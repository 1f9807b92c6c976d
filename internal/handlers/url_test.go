package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/serroba/shortdrop/internal/handlers"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://example.com"

func shorten(app *testApp, url, custom string) (*handlers.CreateShortURLResponse, error) {
	req := &handlers.CreateShortURLRequest{}
	req.Body.URL = url
	req.Body.CustomPath = custom

	return app.urls.CreateShortURL(context.Background(), req)
}

func TestCreateShortURL(t *testing.T) {
	t.Run("creates short url successfully", func(t *testing.T) {
		app := newTestApp(t)

		resp, err := shorten(app, "https://example.com/very/long/path", "")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Body.ShortURL, baseURL+"/urls/"))
		assert.Equal(t, "https://example.com/very/long/path", resp.Body.OriginalURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Location)
	})

	t.Run("creates new code for same URL", func(t *testing.T) {
		app := newTestApp(t)

		resp1, err1 := shorten(app, testURL, "")
		resp2, err2 := shorten(app, testURL, "")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, resp1.Body.ShortURL, resp2.Body.ShortURL)
	})

	t.Run("uses custom path", func(t *testing.T) {
		app := newTestApp(t)

		resp, err := shorten(app, testURL, "docs")

		require.NoError(t, err)
		assert.Equal(t, baseURL+"/urls/docs", resp.Body.ShortURL)
	})

	t.Run("rejects short custom path", func(t *testing.T) {
		app := newTestApp(t)

		_, err := shorten(app, testURL, "ab")

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("taken custom path is a bad request", func(t *testing.T) {
		app := newTestApp(t)
		_, err := shorten(app, testURL, "docs")
		require.NoError(t, err)

		_, err = shorten(app, "https://other.example", "docs")

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("requires url", func(t *testing.T) {
		app := newTestApp(t)

		_, err := shorten(app, "", "")

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects to original url", func(t *testing.T) {
		app := newTestApp(t)
		_, err := shorten(app, testURL, "home")
		require.NoError(t, err)

		resp, err := app.urls.RedirectToURL(context.Background(), &handlers.RedirectRequest{ShortPath: "home"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.Status)
		assert.Equal(t, testURL, resp.Location)
	})

	t.Run("returns 404 when path not found", func(t *testing.T) {
		app := newTestApp(t)

		_, err := app.urls.RedirectToURL(context.Background(), &handlers.RedirectRequest{ShortPath: "missing"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 410 after a year", func(t *testing.T) {
		app := newTestApp(t)
		created, err := shorten(app, testURL, "old")
		require.NoError(t, err)

		*app.clock = created.Body.ExpiresAt

		_, err = app.urls.RedirectToURL(context.Background(), &handlers.RedirectRequest{ShortPath: "old"})

		assert.Equal(t, http.StatusGone, statusOf(t, err))
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[sharing.Kind]int{
		sharing.KindBadRequest:       http.StatusBadRequest,
		sharing.KindNotFound:         http.StatusNotFound,
		sharing.KindExpired:          http.StatusGone,
		sharing.KindConflict:         http.StatusBadRequest,
		sharing.KindKeyRequired:      http.StatusBadRequest,
		sharing.KindDecryptionFailed: http.StatusBadRequest,
		sharing.KindTooLarge:         http.StatusRequestEntityTooLarge,
		sharing.KindStorage:          http.StatusInternalServerError,
		sharing.Kind("unknown"):      http.StatusInternalServerError,
	}

	for kind, want := range cases {
		assert.Equal(t, want, handlers.StatusFor(kind), string(kind))
	}
}
