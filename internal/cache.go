package internal

import (
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/coda/internal/types"
)

const (
	cacheFileName = "coda_cache.gob"

	// cacheVersion changes whenever the stored blocks would differ for the
	// same input. Files written by another version are discarded.
	cacheVersion = 2

	DefaultCacheAge = 24 * time.Hour
)

// cacheKey identifies what produced an entry: the extractor and the file.
// Two extractors with different grammars or comment syntax never share
// entries, even when they extract the same file into the same directory.
type cacheKey struct {
	Extractor string
	Filename  string
}

type cacheEntry struct {
	Digest string
	Blocks []tt.Block
	Stored time.Time
}

// cacheFile is the on-disk layout.
type cacheFile struct {
	Version int
	Entries map[cacheKey]cacheEntry
}

// Cache keeps extracted blocks on disk. An entry is used only for the
// extractor fingerprint it was stored with and while the file content
// digest still matches and the entry is younger than the max age.
type Cache struct {
	dir     string
	maxAge  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

// NewCache opens the cache stored in dir, creating dir when needed. A
// cache file that cannot be decoded or was written by another version is
// ignored and replaced on the next write.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{
		dir:     dir,
		maxAge:  DefaultCacheAge,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the directory holding the cache file.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

func (c *Cache) load() error {
	f, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var stored cacheFile
	if err := gob.NewDecoder(f).Decode(&stored); err != nil || stored.Version != cacheVersion {
		return nil
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	return nil
}

// save writes the cache through a temporary file so that a reader never
// sees a partial cache. The caller holds c.mu.
func (c *Cache) save() error {
	tmp, err := os.CreateTemp(c.dir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = gob.NewEncoder(tmp).Encode(cacheFile{Version: cacheVersion, Entries: c.entries})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return os.Rename(tmp.Name(), c.path())
}

// Digest returns the content digest the cache compares entries with.
func Digest(source []byte) string {
	sum := md5.Sum(source)
	return hex.EncodeToString(sum[:])
}

// Get returns the blocks stored for filename by the extractor with the
// given fingerprint, provided source is still the content they were
// extracted from.
func (c *Cache) Get(extractor, filename string, source []byte) ([]tt.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{extractor, filename}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.Stored) > c.maxAge || entry.Digest != Digest(source) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.Blocks, true
}

// Set stores the blocks extracted from source and writes the cache file.
func (c *Cache) Set(extractor, filename string, source []byte, blocks []tt.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey{extractor, filename}] = cacheEntry{
		Digest: Digest(source),
		Blocks: blocks,
		Stored: c.now(),
	}
	return c.save()
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = d
}

// InvalidateAll drops every entry and rewrites the cache file.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
	return c.save()
}
