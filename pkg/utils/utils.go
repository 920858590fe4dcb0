// Package utils provides cached HTTP downloads for the remote data sets the
// route map is drawn from.
package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("file not found on server")

// DefaultCacheDir is where downloads land when no cache directory is given.
const DefaultCacheDir = "data/cache"

type progressWriter struct {
	io.Writer
	total uint64
	last  uint64
	label string
	log   *zap.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 5*1024*1024 { // Log every 5MB
		pw.log.Info("download progress", zap.String("file", pw.label), zap.Uint64("mb", pw.total/1024/1024))
		pw.last = pw.total
	}
	return n, err
}

// Fetcher downloads URLs into a cache directory and serves later requests
// from disk.
type Fetcher struct {
	CacheDir string
	Client   *http.Client
	Log      *zap.Logger
}

// NewFetcher returns a Fetcher caching into dir (DefaultCacheDir if empty).
func NewFetcher(dir string, log *zap.Logger) *Fetcher {
	if dir == "" {
		dir = DefaultCacheDir
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{CacheDir: dir, Client: http.DefaultClient, Log: log}
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if err := resp.Body.Close(); err != nil {
			f.logger().Warn("closing response body", zap.Error(err))
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp, nil
}

// DownloadFile downloads a file from a URL to a local path safely.
func (f *Fetcher) DownloadFile(ctx context.Context, url, path string) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger().Warn("closing response body", zap.Error(err))
		}
	}()

	// Create a temp file in the same directory to ensure atomic move
	return WriteFileAtomic(path, func(w io.Writer) error {
		pw := &progressWriter{Writer: w, label: filepath.Base(path), log: f.logger()}
		_, err := io.Copy(pw, resp.Body)
		return err
	})
}

// CachePath returns where url is stored in the cache.
func (f *Fetcher) CachePath(url string) string {
	return filepath.Join(f.CacheDir, GetCacheFileName(url))
}

// GetCachedReader returns a reader for url, downloading it into the cache
// first if it is not there yet.
func (f *Fetcher) GetCachedReader(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	localPath := f.CachePath(url)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		f.logger().Info("downloading", zap.String("url", url))
		if err := f.DownloadFile(ctx, url, localPath); err != nil {
			return nil, err // callers check for ErrNotFound
		}
	} else {
		f.logger().Debug("using cached file", zap.String("path", localPath))
	}
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return file, nil
}

// GetCacheFileName returns the local filename for a URL: its last path
// segment without any query string.
func GetCacheFileName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	urlParts := strings.Split(strings.TrimRight(url, "/"), "/")
	return urlParts[len(urlParts)-1]
}

// WriteFileAtomic writes path through a temp file in the same directory and
// renames it into place once write succeeds, so a failed run never leaves a
// truncated file behind.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}() // Clean up if we fail

	if err := write(tmpFile); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	// Atomic rename to final path
	return os.Rename(tmpName, path)
}
