package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"aim/internal/source"
)

// cacheSchemaVersion invalidates stored payloads when the format changes.
const cacheSchemaVersion uint16 = 1

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Cache memoizes whole-run resolution outcomes on disk keyed by a digest of
// every source file. FileIDs inside payloads stay valid across runs because
// files load in sorted path order, which makes ID assignment deterministic
// for an unchanged tree.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cachedNote mirrors diag.Note without span indirection.
type cachedNote struct {
	Msg   string
	File  uint32
	Start uint32
	End   uint32
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	File     uint32
	Start    uint32
	End      uint32
	Notes    []cachedNote
}

// cachePayload is the serialized outcome of one resolution run.
type cachePayload struct {
	Schema   uint16
	Diags    []cachedDiag
	Features []FeatureSummary
}

// OpenCache initializes the cache under dir, or under
// $XDG_CACHE_HOME/<app> when dir is empty.
func OpenCache(app, dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// runDigest keys a run by the schema version plus every file's path and
// content hash, in load order.
func runDigest(fs *source.FileSet, relPaths []string, ids []source.FileID) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], cacheSchemaVersion)
	h.Write(schema[:])
	for i, rel := range relPaths {
		h.Write([]byte(rel))
		h.Write([]byte{0})
		if file := fs.Get(ids[i]); file != nil {
			h.Write(file.Hash[:])
		}
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "runs", hex.EncodeToString(key[:])+".mp")
}

// put stores a payload, written to a temp sibling and renamed into place.
func (c *Cache) put(key Digest, payload *cachePayload) error {
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
	tmpName := f.Name()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// get loads a payload; a miss or a stale schema is (false, nil).
func (c *Cache) get(key Digest) (*cachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		// A corrupt entry is a miss, the run just recomputes it.
		return nil, false, nil
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}
