package handlers_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortdrop/internal/blob"
	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/cleanup"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/handlers"
	"github.com/serroba/shortdrop/internal/messaging"
	"github.com/serroba/shortdrop/internal/sealer"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
	"github.com/serroba/shortdrop/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseURL = "http://localhost:8888"

type testApp struct {
	clip  *handlers.ClipboardHandler
	files *handlers.FileHandler
	urls  *handlers.URLHandler
	blobs *blob.MemoryStore
	clock *time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	logger := zap.NewNop()

	s, err := sealer.New(bytes.Repeat([]byte{1}, sealer.KeySize))
	require.NoError(t, err)

	clipCodes, err := sharing.NoLeadingZeroCodes()
	require.NoError(t, err)
	fileCodes, err := sharing.NumericCodes()
	require.NoError(t, err)
	urlCodes, err := sharing.TokenCodes(8)
	require.NoError(t, err)

	blobs := blob.NewMemoryStore("http://blobs.local")

	clipSvc := clipboard.NewService(
		store.NewMemoryClipboardStore(), s, sharing.NewRegistry(clipCodes, 0), clock, logger,
	)
	fileSvc := files.NewService(
		store.NewMemoryFileStore(), blobs, sharing.NewRegistry(fileCodes, 0), clock,
		messaging.Discard[cleanup.BlobExpiredEvent](), logger,
	)
	urlSvc := shortener.NewService(store.NewMemoryURLStore(), sharing.NewRegistry(urlCodes, 0), clock, logger)

	return &testApp{
		clip:  handlers.NewClipboardHandler(clipSvc, baseURL, logger),
		files: handlers.NewFileHandler(fileSvc, logger),
		urls:  handlers.NewURLHandler(urlSvc, baseURL, logger),
		blobs: blobs,
		clock: &now,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}
