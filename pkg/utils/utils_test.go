package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestGetCachedReader(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		_, _ = io.WriteString(w, "ident,latitude_deg\n")
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "cache")
	f := NewFetcher(dir, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rc, err := f.GetCachedReader(ctx, srv.URL+"/airports.csv")
		if err != nil {
			t.Fatalf("GetCachedReader failed: %v", err)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(body) != "ident,latitude_deg\n" {
			t.Errorf("body = %q", body)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (second read should come from cache)", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "airports.csv")); err != nil {
		t.Errorf("cache file missing: %v", err)
	}

	_, err := f.GetCachedReader(ctx, srv.URL+"/missing.csv")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.csv")); !os.IsNotExist(err) {
		t.Errorf("failed download left a cache file behind")
	}
}

func TestGetCacheFileName(t *testing.T) {
	tests := []struct{ url, want string }{
		{"https://example.com/a/b/ne_50m_land.geojson", "ne_50m_land.geojson"},
		{"https://example.com/airports.csv?raw=true", "airports.csv"},
		{"https://example.com/data/", "data"},
	}
	for _, tt := range tests {
		if got := GetCacheFileName(tt.url); got != tt.want {
			t.Errorf("GetCacheFileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "old" {
		t.Errorf("failed write replaced the file: %q", b)
	}

	if err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	}); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "new" {
		t.Errorf("file = %q, want new", b)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
