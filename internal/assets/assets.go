package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var ErrMissingAsset = errors.New("missing asset")

// Resolve returns rel joined onto the asset dir. Absolute paths are returned cleaned.
func Resolve(dir, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(dir, rel)
}

// Check verifies that every file exists under dir. All missing files are reported together.
func Check(dir string, files []string) error {
	var errs []error
	for _, f := range files {
		p := Resolve(dir, f)
		st, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingAsset, p))
		case err != nil:
			errs = append(errs, fmt.Errorf("stat %s: %w", p, err))
		case st.IsDir():
			errs = append(errs, fmt.Errorf("%w: %s is a directory", ErrMissingAsset, p))
		}
	}
	return errors.Join(errs...)
}

// Cache loads each path at most once. Failed loads are not cached, so a later request
// retries. It is safe for concurrent use.
type Cache[T any] struct {
	mu    sync.Mutex
	load  func(path string) (T, error)
	items map[string]T
	order []string
	log   zerolog.Logger

	hits, misses int
}

// NewCache returns an empty cache that fills itself with load.
func NewCache[T any](load func(path string) (T, error), log zerolog.Logger) *Cache[T] {
	return &Cache[T]{load: load, items: make(map[string]T), log: log}
}

// Get returns the cached item for path, loading it on first use.
func (c *Cache[T]) Get(path string) (T, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		c.hits++
		return v, nil
	}
	c.misses++
	v, err := c.load(key)
	if err != nil {
		c.log.Warn().Err(err).Str("path", key).Msg("asset load failed")
		var zero T
		return zero, err
	}
	c.items[key] = v
	c.order = append(c.order, key)
	c.log.Debug().Str("path", key).Int("cached", len(c.items)).Msg("asset loaded")
	return v, nil
}

// Len returns the number of cached items.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counts.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Drain empties the cache, calling release on each item in load order.
func (c *Cache[T]) Drain(release func(path string, v T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.order {
		if release != nil {
			release(k, c.items[k])
		}
	}
	c.items = make(map[string]T)
	c.order = nil
}
