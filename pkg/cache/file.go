package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lmeier/layermix/pkg/errors"
)

// fileEntry is the on-disk envelope around a cached payload. Expiry
// travels with the payload so stale entries are detected on read.
type fileEntry struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// FileCache stores entries as JSON files under a root directory,
// sharded into 256 subdirectories by the first byte of the key hash.
type FileCache struct {
	root string
}

// NewFileCache creates the root directory if needed.
func NewFileCache(root string) (*FileCache, error) {
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache directory is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWrite, err, "cache directory %s cannot be created", root)
	}
	return &FileCache{root: root}, nil
}

// Root returns the cache root directory.
func (c *FileCache) Root() string { return c.root }

func (c *FileCache) path(key string) string {
	h := hashKey(key)
	return filepath.Join(c.root, h[:2], h+".json")
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "cache entry for %q cannot be read", key)
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entries are treated as misses and removed.
		_ = os.Remove(c.path(key))
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false, nil
	}
	return entry.Payload, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := fileEntry{Payload: payload}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cache entry for %q cannot be encoded", key)
	}
	dest := c.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "cache shard for %q cannot be created", key)
	}
	// Write-then-rename keeps readers from seeing partial entries.
	tmp := fmt.Sprintf("%s.tmp%d", dest, os.Getpid())
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "cache entry for %q cannot be written", key)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWrite, err, "cache entry for %q cannot be committed", key)
	}
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeWrite, err, "cache entry for %q cannot be removed", key)
	}
	return nil
}

// Clear removes every entry under the cache root.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "cache directory %s cannot be listed", c.root)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeWrite, err, "cache shard %s cannot be removed", e.Name())
		}
	}
	return nil
}

func (c *FileCache) Close() error { return nil }
