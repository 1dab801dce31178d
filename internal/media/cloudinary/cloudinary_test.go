package cloudinary

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/media"
)

type fakeUploads struct {
	uploaded  uploader.UploadParams
	data      string
	destroyed uploader.DestroyParams
	result    string
	err       error
}

func (f *fakeUploads) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = params
	if r, ok := file.(io.Reader); ok {
		b, _ := io.ReadAll(r)
		f.data = string(b)
	}
	return &uploader.UploadResult{PublicID: params.PublicID}, nil
}

func (f *fakeUploads) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = params
	return &uploader.DestroyResult{Result: f.result}, nil
}

func TestPut(t *testing.T) {
	fake := &fakeUploads{}
	s := newStore(fake, nil, "/roboadmin/", http.DefaultClient)

	require.NoError(t, s.Put(context.Background(), "uploads/banners/intro.mp4", "video/mp4", strings.NewReader("v")))
	assert.Equal(t, "roboadmin/uploads/banners/intro_mp4", fake.uploaded.PublicID)
	assert.Equal(t, "video", fake.uploaded.ResourceType)
	assert.Equal(t, api.Bool(true), fake.uploaded.Overwrite)
	assert.Equal(t, "v", fake.data)
}

func TestPutError(t *testing.T) {
	s := newStore(&fakeUploads{err: errors.New("quota")}, nil, "", http.DefaultClient)

	assert.Error(t, s.Put(context.Background(), "a.png", "image/png", strings.NewReader("x")))
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/image/roboadmin/uploads/a_png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	deliveryURL := func(publicID, resourceType string) (string, error) {
		return server.URL + "/" + resourceType + "/" + publicID, nil
	}
	s := newStore(&fakeUploads{}, deliveryURL, "roboadmin", server.Client())

	body, mimeType, err := s.Get(context.Background(), "uploads/a.png")
	require.NoError(t, err)
	defer body.Close()
	data, _ := io.ReadAll(body)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", mimeType)

	_, _, err = s.Get(context.Background(), "uploads/missing.png")
	assert.ErrorIs(t, err, media.ErrNotFound)
}

func TestDelete(t *testing.T) {
	fake := &fakeUploads{result: "ok"}
	s := newStore(fake, nil, "", http.DefaultClient)

	require.NoError(t, s.Delete(context.Background(), "uploads/a.png"))
	assert.Equal(t, "uploads/a_png", fake.destroyed.PublicID)
	assert.Equal(t, "image", fake.destroyed.ResourceType)

	fake.result = "not found"
	assert.ErrorIs(t, s.Delete(context.Background(), "uploads/a.png"), media.ErrNotFound)
}

func TestPublicIDKeepsExtensionsApart(t *testing.T) {
	s := newStore(&fakeUploads{}, nil, "roboadmin", http.DefaultClient)

	assert.Equal(t, "roboadmin/uploads/a_jpg", s.publicID("uploads/a.jpg"))
	assert.Equal(t, "roboadmin/uploads/a_png", s.publicID("uploads/a.png"))
	assert.NotEqual(t, s.publicID("uploads/a.jpg"), s.publicID("uploads/a.png"))
}
