// Package fetch downloads scraper inputs with a disk cache behind them.
// A failed download falls back to the cached copy, so a flaky upstream
// degrades freshness instead of breaking an import run.
package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/novacat/pkg/logger"
	"github.com/okian/novacat/pkg/metrics"
)

// ErrUnavailable is returned when a URL can be served neither from the
// network nor from cache.
var ErrUnavailable = errors.New("fetch: unavailable")

// defaultTimeout bounds a single download.
const defaultTimeout = 120 * time.Second

// Client is a caching HTTP fetcher.
type Client struct {
	http     *http.Client
	cacheDir string
	offline  bool
	log      logger.Logger
}

// New creates a client caching under cacheDir.
func New(cacheDir string, opts ...Option) (*Client, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("fetch: create cache dir: %w", err)
	}
	c := &Client{
		http:     &http.Client{Timeout: defaultTimeout},
		cacheDir: cacheDir,
		log:      logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the body for url. In offline mode the cache is authoritative;
// otherwise the network copy wins and refreshes the cache, with the cache
// as fallback when the download fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	metrics.RecordFetchRequest()
	path := c.cachePath(url)

	if c.offline {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s not cached", ErrUnavailable, url)
		}
		metrics.RecordFetchCacheHit()
		return data, nil
	}

	data, err := c.download(ctx, url)
	if err != nil {
		metrics.RecordFetchFailure()
		cached, cacheErr := os.ReadFile(path)
		if cacheErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, url, err)
		}
		c.log.Warn(ctx, "serving stale cache after failed download",
			logger.String("url", url), logger.Error(err))
		metrics.RecordFetchCacheHit()
		return cached, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.log.Warn(ctx, "cannot update cache",
			logger.String("url", url), logger.Error(err))
	}
	return data, nil
}

// GetChanged is Get plus change detection: it reports whether the body
// differs from the previously cached copy, letting callers skip reprocessing
// inputs that have not moved since the last run.
func (c *Client) GetChanged(ctx context.Context, url string) ([]byte, bool, error) {
	path := c.cachePath(url)
	before, beforeErr := os.ReadFile(path)

	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if beforeErr != nil {
		return data, true, nil
	}
	return data, md5.Sum(before) != md5.Sum(data), nil
}

// download performs one HTTP GET.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	started := time.Now()
	defer func() {
		metrics.RecordFetchDuration(float64(time.Since(started).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// cachePath maps a URL to its cache file.
func (c *Client) cachePath(url string) string {
	sum := md5.Sum([]byte(url))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:]))
}
