package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"verilab/internal/diag"
	"verilab/internal/elab"
	"verilab/internal/hir"
)

// bump when Payload changes shape
const diskCacheSchemaVersion uint16 = 2

// Digest is a SHA-256 cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache keeps elaboration results of whole design files, keyed by
// content and options. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached run.
type Payload struct {
	Schema  uint16
	Path    string
	Results []CachedResult
}

type CachedResult struct {
	Name    string
	Node    *hir.Node
	Diags   []diag.Diagnostic
	Width   int
	Unsized bool
	Refs    []string
}

// OpenDiskCache uses $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "cache dir")
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	return &DiskCache{dir: dir}, nil
}

// KeyFor hashes everything that can change a run's output.
func KeyFor(content []byte, opts elab.Options, fold bool) Digest {
	h := sha256.New()
	var hdr [12]byte
	binary.LittleEndian.PutUint16(hdr[0:], diskCacheSchemaVersion)
	binary.LittleEndian.PutUint32(hdr[2:], uint32(opts.IntegerWidth)) //nolint:gosec // G115: hash input only
	hdr[6] = flag(opts.SpecifyBlocks)
	hdr[7] = flag(opts.IcarusMisc)
	hdr[8] = flag(fold)
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (c *DiskCache) pathFor(key Digest) string {
	// подкаталог "runs", чтобы чистить руками было проще
	return filepath.Join(c.dir, "runs", key.String()+".mp")
}

// Put writes payload through a temp file and an atomic rename.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "cache put")
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return errors.Wrap(err, "cache put")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return errors.Wrap(err, "cache encode")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "cache put")
	}
	// атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return errors.Wrap(err, "cache put")
	}
	return nil
}

// Get reports false for a missing entry or one from another schema.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
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
		return false, errors.Wrap(err, "cache get")
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, errors.Wrap(err, "cache decode")
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

func (c *DiskCache) Dir() string { return c.dir }

// DropAll removes every cached run.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Wrap(os.RemoveAll(filepath.Join(c.dir, "runs")), "cache drop")
}
