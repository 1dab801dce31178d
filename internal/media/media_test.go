package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/logging"
)

type memStore struct {
	data    map[string][]byte
	deleted []string
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	b, err := io.ReadAll(r)
	m.data[key] = b
	return err
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if _, ok := m.data[key]; !ok {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}

type stubUpstream struct {
	fetched []string
	err     error
}

func (s *stubUpstream) FetchMedia(_ context.Context, p string) (io.ReadCloser, string, error) {
	s.fetched = append(s.fetched, p)
	if s.err != nil {
		return nil, "", s.err
	}
	return io.NopCloser(strings.NewReader("bytes of " + p)), "image/png", nil
}

func readAll(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestCacheMissThenHit(t *testing.T) {
	store := newMemStore()
	up := &stubUpstream{}
	c := NewCache(store, up, logging.Discard())
	ctx := context.Background()

	body, mimeType, err := c.Open(ctx, "uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, "bytes of /uploads/a.png", readAll(t, body))
	assert.Equal(t, "image/png", mimeType)
	assert.Contains(t, store.data, "uploads/a.png")

	body, _, err = c.Open(ctx, "/uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, "bytes of /uploads/a.png", readAll(t, body))
	assert.Len(t, up.fetched, 1)
}

func TestCacheWithoutStorePassesThrough(t *testing.T) {
	up := &stubUpstream{}
	c := NewCache(nil, up, logging.Discard())
	assert.False(t, c.Enabled())

	for i := 0; i < 2; i++ {
		body, _, err := c.Open(context.Background(), "uploads/a.png")
		require.NoError(t, err)
		readAll(t, body)
	}
	assert.Len(t, up.fetched, 2)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

type sizedUpstream struct {
	size int64
	body *closeTracker
}

func (s *sizedUpstream) FetchMedia(context.Context, string) (io.ReadCloser, string, error) {
	s.body = &closeTracker{Reader: io.LimitReader(zeroReader{}, s.size)}
	return s.body, "video/mp4", nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestCacheServesOversizeAssetInFull(t *testing.T) {
	store := newMemStore()
	up := &sizedUpstream{size: MaxUploadBytes + 10<<20}
	c := NewCache(store, up, logging.Discard())

	body, mimeType, err := c.Open(context.Background(), "uploads/banner.mp4")
	require.NoError(t, err)
	n, err := io.Copy(io.Discard, body)
	require.NoError(t, err)
	require.NoError(t, body.Close())

	assert.Equal(t, up.size, n)
	assert.Equal(t, "video/mp4", mimeType)
	assert.True(t, up.body.closed)
	assert.NotContains(t, store.data, "uploads/banner.mp4")
}

func TestCacheStoresAssetAtLimit(t *testing.T) {
	store := newMemStore()
	up := &sizedUpstream{size: MaxUploadBytes}
	c := NewCache(store, up, logging.Discard())

	body, _, err := c.Open(context.Background(), "uploads/clip.mp4")
	require.NoError(t, err)
	n, err := io.Copy(io.Discard, body)
	require.NoError(t, err)
	require.NoError(t, body.Close())

	assert.Equal(t, up.size, n)
	assert.True(t, up.body.closed)
	assert.Len(t, store.data["uploads/clip.mp4"], MaxUploadBytes)
}

func TestCacheUpstreamError(t *testing.T) {
	c := NewCache(newMemStore(), &stubUpstream{err: errors.New("404")}, logging.Discard())

	_, _, err := c.Open(context.Background(), "uploads/a.png")
	assert.Error(t, err)
}

func TestCacheEvict(t *testing.T) {
	store := newMemStore()
	store.data["uploads/a.png"] = []byte("x")
	c := NewCache(store, &stubUpstream{}, logging.Discard())

	c.Evict(context.Background(), "https://lunarsenterprises.com:7001/uploads/a.png")
	assert.Equal(t, []string{"uploads/a.png"}, store.deleted)
	assert.NotContains(t, store.data, "uploads/a.png")

	c.Evict(context.Background(), "")
	assert.Len(t, store.deleted, 1)
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"/uploads/a.png":                  "uploads/a.png",
		"uploads/a.png":                   "uploads/a.png",
		"https://host:7001/uploads/a.png": "uploads/a.png",
		"/uploads/../../etc/passwd":       "etc/passwd",
		"//uploads//nested/./b.mp4":       "uploads/nested/b.mp4",
	}
	for in, want := range tests {
		got, err := Key(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Key("/")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	webp := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	mp4 := []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
	pdf := []byte("%PDF-1.7\n")

	tests := []struct {
		name string
		kind Kind
		data []byte
		want string
		ok   bool
	}{
		{"png image", KindImage, png, "image/png", true},
		{"jpeg image", KindImage, jpeg, "image/jpeg", true},
		{"webp image", KindImage, webp, "image/webp", true},
		{"pdf as image", KindImage, pdf, "", false},
		{"mp4 video", KindVideo, mp4, "video/mp4", true},
		{"png as video", KindVideo, png, "", false},
		{"pdf document", KindDocument, pdf, "application/pdf", true},
		{"text document", KindDocument, []byte("hello"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.kind, tt.data)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServableType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"image/png", "image/png"},
		{"IMAGE/JPEG", "image/jpeg"},
		{"video/mp4; codecs=avc1", "video/mp4"},
		{"application/pdf", "application/pdf"},
		{"text/html; charset=utf-8", "application/octet-stream"},
		{"image/svg+xml", "application/octet-stream"},
		{"", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ServableType(tt.in), tt.in)
	}
}

func TestExtFor(t *testing.T) {
	assert.Equal(t, ".png", ExtFor("image/png"))
	assert.Equal(t, ".mp4", ExtFor("video/mp4"))
	assert.Equal(t, ".pdf", ExtFor("application/pdf"))
	assert.Equal(t, ".jpg", ExtFor("image/jpeg"))
}
