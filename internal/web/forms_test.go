package web

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/logging"
	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/service"
)

func multipartRequest(t *testing.T, files map[string][][]byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, blobs := range files {
		for _, data := range blobs {
			fw, err := w.CreateFormFile(field, "upload.bin")
			require.NoError(t, err)
			_, err = fw.Write(data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.WriteField("name", "Temi"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/robots", body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, parseForm(r))
	return r
}

func TestFormFile(t *testing.T) {
	s := &Server{logger: logging.Discard()}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...)
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n")

	tests := []struct {
		name     string
		files    map[string][][]byte
		field    string
		kinds    []media.Kind
		wantMIME string
		wantNil  bool
		wantBad  bool
	}{
		{name: "JPEG image", files: map[string][][]byte{"image": {jpeg}}, field: "image", kinds: []media.Kind{media.KindImage}, wantMIME: "image/jpeg"},
		{name: "WebP image", files: map[string][][]byte{"image": {webp}}, field: "image", kinds: []media.Kind{media.KindImage}, wantMIME: "image/webp"},
		{name: "PDF brochure", files: map[string][][]byte{"brochure": {pdf}}, field: "brochure", kinds: []media.Kind{media.KindDocument}, wantMIME: "application/pdf"},
		{name: "image or video falls back", files: map[string][][]byte{"file": {jpeg}}, field: "file", kinds: []media.Kind{media.KindVideo, media.KindImage}, wantMIME: "image/jpeg"},
		{name: "missing field", files: map[string][][]byte{}, field: "image", kinds: []media.Kind{media.KindImage}, wantNil: true},
		{name: "empty file", files: map[string][][]byte{"image": {{}}}, field: "image", kinds: []media.Kind{media.KindImage}, wantNil: true},
		{name: "PDF as image", files: map[string][][]byte{"image": {pdf}}, field: "image", kinds: []media.Kind{media.KindImage}, wantBad: true},
		{name: "text", files: map[string][][]byte{"image": {[]byte("hello")}}, field: "image", kinds: []media.Kind{media.KindImage}, wantBad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := multipartRequest(t, tt.files)
			f, err := s.formFile(r, tt.field, tt.kinds...)
			if tt.wantBad {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errBadUpload))
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, f)
				return
			}
			require.NotNil(t, f)
			assert.Equal(t, tt.wantMIME, f.ContentType)
			assert.Equal(t, "upload.bin", f.Name)
			assert.NotEmpty(t, f.Data)
		})
	}
}

func TestFormFilesReadsEveryUpload(t *testing.T) {
	s := &Server{logger: logging.Discard()}
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 8)...)
	r := multipartRequest(t, map[string][][]byte{"image": {png, png, {}}})

	files, err := s.formFiles(r, "image", media.KindImage)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, "Temi", r.PostFormValue("name"))
}

func TestFormFileWithoutMultipart(t *testing.T) {
	s := &Server{logger: logging.Discard()}
	r := httptest.NewRequest(http.MethodPost, "/login", nil)

	f, err := s.formFile(r, "image", media.KindImage)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFormErrors(t *testing.T) {
	errs, ok := formErrors(service.ValidationErrors{"name": "Name is required."}, "image")
	assert.True(t, ok)
	assert.Equal(t, "Name is required.", errs["name"])

	errs, ok = formErrors(errors.Join(errBadUpload, errors.New("x")), "image")
	assert.True(t, ok)
	assert.Contains(t, errs["image"], "unsupported upload")

	_, ok = formErrors(errors.New("upstream down"), "image")
	assert.False(t, ok)
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/leads?page=2", pageURL("/leads", "", 2))
	assert.Equal(t, "/orders?page=3&q=noor&status=Shipped", pageURL("/orders", "status=Shipped&q=noor", 3))
	assert.Equal(t, "/orders?page=1", pageURL("/orders", "page=5", 1))
}

func TestQueryURL(t *testing.T) {
	assert.Equal(t, "/orders/export.csv", queryURL("/orders/export.csv", ""))
	assert.Equal(t, "/orders/export.csv?status=All", queryURL("/orders/export.csv", "status=All"))
}

func TestStatusTone(t *testing.T) {
	assert.Equal(t, "warn", statusTone("Pending"))
	assert.Equal(t, "warn", statusTone("active"))
	assert.Equal(t, "info", statusTone("Shipped"))
	assert.Equal(t, "ok", statusTone("Delivered"))
	assert.Equal(t, "bad", statusTone("Cancelled"))
	assert.Equal(t, "muted", statusTone("Refunded"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "AED 1500.00", formatMoney(1500))
	assert.Equal(t, "AED 0.50", formatMoney(0.5))
}
