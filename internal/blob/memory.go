package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
)

// MemoryStore is an in-process files.BlobStore for tests and local runs. It
// also serves its own signed URLs when mounted under baseURL.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	now     sharing.Clock
}

type object struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return NewMemoryStoreWithClock(baseURL, sharing.UTCNow)
}

func NewMemoryStoreWithClock(baseURL string, now sharing.Clock) *MemoryStore {
	return &MemoryStore{objects: make(map[string]object), baseURL: baseURL, now: now}
}

func (m *MemoryStore) EnsureBucket(context.Context) error {
	return nil
}

func (m *MemoryStore) Put(_ context.Context, path string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(io.LimitReader(body, size+1))
	if err != nil {
		return err
	}

	if int64(len(data)) != size {
		return fmt.Errorf("put %s: read %d bytes, want %d", path, len(data), size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[path]; ok {
		return sharing.ErrBlobExists
	}

	m.objects[path] = object{data: data, contentType: contentType}

	return nil
}

func (m *MemoryStore) SignURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[path]; !ok {
		return "", fmt.Errorf("sign %s: %w", path, sharing.ErrRecordNotFound)
	}

	ttl = ClampTTL(ttl)
	q := url.Values{
		"expires": {ttl.String()},
		"until":   {strconv.FormatInt(m.now().Add(ttl).Unix(), 10)},
	}

	return m.baseURL + "/" + (&url.URL{Path: path}).EscapedPath() + "?" + q.Encode(), nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, path)

	return nil
}

// Object returns a copy of the bytes stored at path.
func (m *MemoryStore) Object(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[path]

	return bytes.Clone(obj.data), ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// ServeHTTP answers a signed URL with the object bytes. The request path is
// the object path, so mount it behind http.StripPrefix. Expired or unsigned
// links get 403.
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	until, err := strconv.ParseInt(r.URL.Query().Get("until"), 10, 64)
	if err != nil || !m.now().Before(time.Unix(until, 0)) {
		http.Error(w, "request has expired", http.StatusForbidden)
		return
	}

	m.mu.RLock()
	obj, ok := m.objects[r.URL.Path]
	m.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if obj.contentType != "" {
		w.Header().Set("Content-Type", obj.contentType)
	}

	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(obj.data))
}

var _ files.BlobStore = (*MemoryStore)(nil)
