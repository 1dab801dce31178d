// Package media caches upstream media assets and validates uploads.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
)

// ErrNotFound is returned by a Store when the key holds nothing.
var ErrNotFound = errors.New("media not found")

// Store keeps media bytes under a slash-separated key.
type Store interface {
	Put(ctx context.Context, key, mimeType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// upstream is the subset of robotics.Client the cache fetches misses from.
type upstream interface {
	FetchMedia(ctx context.Context, path string) (io.ReadCloser, string, error)
}

// Cache serves upstream media through an optional Store. With no store every
// request goes to the upstream.
type Cache struct {
	store    Store
	upstream upstream
	logger   *slog.Logger
}

func NewCache(store Store, upstream upstream, logger *slog.Logger) *Cache {
	return &Cache{store: store, upstream: upstream, logger: logger}
}

// Enabled reports whether a backing store is configured.
func (c *Cache) Enabled() bool {
	return c.store != nil
}

// Open returns the asset at the upstream media path p.
func (c *Cache) Open(ctx context.Context, p string) (io.ReadCloser, string, error) {
	key, err := Key(p)
	if err != nil {
		return nil, "", err
	}

	if c.store != nil {
		body, mimeType, err := c.store.Get(ctx, key)
		if err == nil {
			c.logger.Debug("media cache hit", "key", key)
			return body, mimeType, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("media cache read failed", "key", key, "error", err)
		}
	}

	body, mimeType, err := c.upstream.FetchMedia(ctx, "/"+key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch media: %w", err)
	}
	if c.store == nil {
		return body, mimeType, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxUploadBytes+1))
	if err != nil {
		c.closeBody(body)
		return nil, "", fmt.Errorf("failed to read media: %w", err)
	}
	if len(data) > MaxUploadBytes {
		// Too large to cache: hand back what was read followed by the rest.
		c.logger.Debug("media too large to cache", "key", key)
		return &joinedBody{Reader: io.MultiReader(bytes.NewReader(data), body), Closer: body}, mimeType, nil
	}
	c.closeBody(body)

	if err := c.store.Put(ctx, key, mimeType, bytes.NewReader(data)); err != nil {
		c.logger.Warn("media cache write failed", "key", key, "error", err)
	}
	return io.NopCloser(bytes.NewReader(data)), mimeType, nil
}

func (c *Cache) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		c.logger.Warn("failed to close media body", "error", err)
	}
}

type joinedBody struct {
	io.Reader
	io.Closer
}

// Evict drops the cached copy of a media URL or path, if any.
func (c *Cache) Evict(ctx context.Context, ref string) {
	if c.store == nil || ref == "" {
		return
	}
	key, err := Key(ref)
	if err != nil {
		return
	}
	if err := c.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		c.logger.Warn("media cache evict failed", "key", key, "error", err)
	}
}

// Key normalises an upstream media path or absolute URL into a store key.
func Key(ref string) (string, error) {
	p := ref
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid media url: %w", err)
		}
		p = u.Path
	}

	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("empty media path")
	}
	return clean, nil
}
