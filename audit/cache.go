package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CacheEntry is what we remember about an archived file.
type CacheEntry struct {
	Bytes uint64 `json:"bytes"`
	Lines uint64 `json:"lines"`
}

// A LineCache remembers the line counts of archived files, which are never
// written again after rotation. Entries are keyed by path and only match at
// the size they were recorded with. With a path set, the cache can be saved
// to and loaded from a JSON file.
type LineCache struct {
	lock    sync.RWMutex
	entries map[string]CacheEntry
	path    string
}

// NewLineCache returns an empty cache. An empty path keeps it in memory.
func NewLineCache(path string) *LineCache {
	return &LineCache{entries: make(map[string]CacheEntry), path: path}
}

// Lookup returns the cached line count for file when it still has size bytes
func (c *LineCache) Lookup(file string, size uint64) (uint64, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	entry, ok := c.entries[file]
	if !ok || entry.Bytes != size {
		return 0, false
	}
	return entry.Lines, true
}

func (c *LineCache) Store(file string, size, lines uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries[file] = CacheEntry{Bytes: size, Lines: lines}
}

// Retain drops every entry whose path isn't in keep and returns how many
// were dropped.
func (c *LineCache) Retain(keep map[string]bool) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	var dropped int
	for file := range c.entries {
		if !keep[file] {
			delete(c.entries, file)
			dropped++
		}
	}
	return dropped
}

func (c *LineCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.entries)
}

// Load replaces the contents of the cache with what was last saved.
func (c *LineCache) Load() error {
	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to load cache from %s: %w", c.path, err)
	}

	entries := make(map[string]CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal cache from %s: %w", c.path, err)
	}

	c.lock.Lock()
	c.entries = entries
	c.lock.Unlock()

	return nil
}

// Save writes the cache to a temp file next to path and renames it into
// place, so a reader never sees a partial file.
func (c *LineCache) Save() error {
	if c.path == "" {
		return nil
	}

	c.lock.RLock()
	data, err := json.Marshal(c.entries)
	c.lock.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache for %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".linecache-*")
	if err != nil {
		return fmt.Errorf("failed to save cache to %s: %w", c.path, err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), c.path)
	}
	if err != nil {
		return fmt.Errorf("failed to save cache to %s: %w", c.path, err)
	}

	return nil
}
