package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"msgc/internal/layout"
)

// diskCacheSchemaVersion invalidates old payloads when the format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content hash of a schema file.
type Digest [sha256.Size]byte

// DigestOf hashes schema file contents.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// DiskPayload stores the planned layouts of one schema file, keyed by its
// content hash. It carries the complete output contract, so a cache hit
// serves formatters without replanning.
type DiskPayload struct {
	Schema uint16

	Path        string
	ContentHash Digest

	Messages []layout.MessageExport
}

// DiskCache stores payloads on disk, one file per digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a disk cache at the standard location
// ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	// A "layouts" subdirectory keeps the cache root readable.
	return filepath.Join(c.dir, "layouts", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing atomically via rename.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The boolean reports whether the key was present.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every cached payload.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "layouts"))
}
