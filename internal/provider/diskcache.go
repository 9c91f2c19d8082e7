package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// diskCache is the provider-owned on-disk memoization layer. Entries are
// keyed by session slug and immutable once written: sessions are historical,
// so the cache is never invalidated. Nothing outside this package reads or
// writes cache files.
type diskCache struct {
	dir string
}

func newDiskCache(dir string) (*diskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &diskCache{dir: dir}, nil
}

func (c *diskCache) path(slug string) string {
	return filepath.Join(c.dir, slug+".json")
}

// Get returns the cached session for slug, or ok=false on a miss.
func (c *diskCache) Get(slug string) (*RawSession, bool, error) {
	data, err := os.ReadFile(c.path(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var raw RawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", slug, err)
	}
	return &raw, true, nil
}

// Put writes a cache entry unless one already exists. The write goes through
// a temp file and rename so readers never observe a partial entry.
func (c *diskCache) Put(slug string, raw *RawSession) error {
	path := c.path(slug)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, slug+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp entry: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish cache entry: %w", err)
	}
	return nil
}
