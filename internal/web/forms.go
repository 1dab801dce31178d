package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/vbonduro/roboadmin/internal/media"
	"github.com/vbonduro/roboadmin/internal/robotics"
	"github.com/vbonduro/roboadmin/internal/service"
)

// errBadUpload marks a file that was present but unacceptable.
var errBadUpload = errors.New("unsupported upload")

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}()

// parseForm parses url-encoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(media.MaxUploadBytes)
	}
	return r.ParseForm()
}

// decodeForm parses the request body into dst using its schema tags.
func decodeForm(r *http.Request, dst any) error {
	if err := parseForm(r); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("failed to decode form: %w", err)
	}
	return nil
}

// formFile reads an optional upload and checks that it sniffs as one of
// kinds. A missing or empty field yields nil.
func (s *Server) formFile(r *http.Request, field string, kinds ...media.Kind) (*robotics.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return s.readUpload(headers[0], kinds...)
}

// formFiles reads every upload under field.
func (s *Server) formFiles(r *http.Request, field string, kinds ...media.Kind) ([]robotics.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []robotics.File
	for _, hdr := range r.MultipartForm.File[field] {
		f, err := s.readUpload(hdr, kinds...)
		if err != nil {
			return nil, err
		}
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *Server) readUpload(hdr *multipart.FileHeader, kinds ...media.Kind) (*robotics.File, error) {
	if hdr.Size == 0 {
		return nil, nil
	}
	if hdr.Size > media.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %s is larger than 50 MB", errBadUpload, hdr.Filename)
	}

	file, err := hdr.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var detectErr error
	for _, kind := range kinds {
		mimeType, err := media.Detect(kind, data)
		if err != nil {
			detectErr = err
			continue
		}
		name := filepath.Base(hdr.Filename)
		if name == "." || name == string(filepath.Separator) {
			name = "upload" + media.ExtFor(mimeType)
		}
		return &robotics.File{Name: name, ContentType: mimeType, Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %s: %v", errBadUpload, hdr.Filename, detectErr)
}

// formErrors turns err into field messages for redisplay. ok is false when
// err is not something the admin can fix from the form.
func formErrors(err error, field string) (service.ValidationErrors, bool) {
	if v := service.AsValidation(err); v != nil {
		return v, true
	}
	if errors.Is(err, errBadUpload) {
		return service.ValidationErrors{field: err.Error()}, true
	}
	return nil, false
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}

func fieldError(errs service.ValidationErrors, field string) string {
	return errs[field]
}

// pageURL links to page n of a list, keeping its other query parameters.
func pageURL(base, params string, n int) string {
	q, _ := url.ParseQuery(params)
	q.Set("page", strconv.Itoa(n))
	return base + "?" + q.Encode()
}

// queryURL appends encoded query parameters to base.
func queryURL(base, params string) string {
	if params == "" {
		return base
	}
	return base + "?" + params
}

// formatMoney renders an amount in AED with two decimals.
func formatMoney(f float64) string {
	return "AED " + strconv.FormatFloat(f, 'f', 2, 64)
}

func formatRating(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// statusTone maps an order status to a badge class.
func statusTone(status string) string {
	switch strings.ToLower(status) {
	case "pending", "active":
		return "warn"
	case "confirmed", "shipped":
		return "info"
	case "delivered":
		return "ok"
	case "cancelled":
		return "bad"
	default:
		return "muted"
	}
}
