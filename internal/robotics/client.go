// Package robotics is the client for the upstream robotics REST API, which owns
// every business record the dashboard manages.
package robotics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// ErrRejected is returned when the upstream answers with result:false.
var ErrRejected = errors.New("upstream rejected request")

// APIError carries the upstream message for a rejected call.
type APIError struct {
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Path, ErrRejected)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *APIError) Unwrap() error { return ErrRejected }

// File is an upload attached to a multipart call under Field.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type Client struct {
	baseURL     string
	mediaOrigin string
	client      *http.Client
	logger      *slog.Logger
}

func NewClient(baseURL, mediaOrigin string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		mediaOrigin: strings.TrimRight(mediaOrigin, "/"),
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type envelope struct {
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	List    json.RawMessage `json:"list"`
	User    json.RawMessage `json:"user"`
	Success bool            `json:"success"`
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*envelope, error) {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path)
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files []File) (*envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) (*envelope, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("upstream call failed", "endpoint", path, "error", err)
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("upstream call failed", "endpoint", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.Error("upstream call failed", "endpoint", path, "error", err)
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return &env, nil
}

// call posts body as JSON and requires result:true.
func (c *Client) call(ctx context.Context, path string, body any) (*envelope, error) {
	env, err := c.postJSON(ctx, path, body)
	if err != nil {
		return nil, err
	}
	if !env.Result {
		return nil, c.rejected(path, env)
	}
	return env, nil
}

// send posts a multipart form and requires result:true.
func (c *Client) send(ctx context.Context, path string, fields map[string]string, files []File) error {
	env, err := c.postMultipart(ctx, path, fields, files)
	if err != nil {
		return err
	}
	if !env.Result {
		return c.rejected(path, env)
	}
	return nil
}

func (c *Client) rejected(path string, env *envelope) error {
	c.logger.Warn("upstream rejected request", "endpoint", path, "message", env.Message)
	return &APIError{Path: path, Message: env.Message}
}

// list runs a list call and decodes its list into dst.
func (c *Client) list(ctx context.Context, path string, body any, dst any) error {
	env, err := c.call(ctx, path, body)
	if err != nil {
		return err
	}
	if len(env.List) == 0 || string(env.List) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.List, dst); err != nil {
		return fmt.Errorf("failed to decode %s list: %w", path, err)
	}
	return nil
}

// MediaURL turns an upstream media path into an absolute URL.
func (c *Client) MediaURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return c.mediaOrigin + path
	default:
		return c.mediaOrigin + "/" + path
	}
}

// MediaOrigin is the prefix applied to relative media paths.
func (c *Client) MediaOrigin() string {
	return c.mediaOrigin
}

// FetchMedia downloads a media asset. The caller closes the returned body.
func (c *Client) FetchMedia(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MediaURL(path), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch media: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.closeBody(resp.Body)
		return nil, "", fmt.Errorf("media %s returned status %d", path, resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		c.logger.Warn("failed to close response body", "error", err)
	}
}

// text decodes a JSON string, number or null into a string.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*t = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*t = text(v)
	default:
		*t = text(s)
	}
	return nil
}

func (t text) String() string { return strings.TrimSpace(string(t)) }

// number decodes a JSON number, numeric string or null into a float64.
// Unparseable strings decode as zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var t text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	if t.String() == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(t.String(), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = number(v)
	return nil
}

// SplitList splits a comma separated field, trimming entries and dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// joinList trims entries and joins them with commas.
func joinList(items []string) string {
	trimmed := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
