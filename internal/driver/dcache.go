package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/source"
	"pseudo/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит классифицированные диагностики по хешу содержимого и настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of analyzing one file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Path        string
	ContentHash Digest
	Diagnostics []CachedDiagnostic
	Truncated   bool
}

// CachedDiagnostic is a diagnostic without its file id; spans are offsets
// into the file the payload was stored for.
type CachedDiagnostic struct {
	Start    uint32
	End      uint32
	Severity uint8
	Code     uint16
	Message  string
	Notes    []CachedNote `msgpack:",omitempty"`
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	// подкаталог "diags" упрощает очистку
	return filepath.Join(c.dir, "diags", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. Payloads of another schema are
// reported as a miss.
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
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o750)
}

// SettingsDigest fingerprints everything besides the text that changes
// diagnostics: the tool version, the keyword table and the findings cap.
func SettingsDigest(reg *keywords.Registry, maxFindings uint) Digest {
	if reg == nil {
		reg = keywords.Default()
	}
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s\x00%d\x00%d\x00", version.Version, diskCacheSchemaVersion, maxFindings)
	var buf [2]byte
	for _, g := range reg.Groups() {
		binary.LittleEndian.PutUint16(buf[:], uint16(g.Concept))
		_, _ = h.Write(buf[:])
		for _, s := range g.Surfaces {
			_, _ = h.Write([]byte(s))
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{1})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey combines file content with a settings digest: H(content || settings).
func CacheKey(content []byte, settings Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content)
	_, _ = h.Write(settings[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func toPayload(path string, hash Digest, diags []diag.Diagnostic, truncated bool) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: hash,
		Diagnostics: make([]CachedDiagnostic, len(diags)),
		Truncated:   truncated,
	}
	for i, d := range diags {
		cd := CachedDiagnostic{
			Start:    d.Span.Start,
			End:      d.Span.End,
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diagnostics[i] = cd
	}
	return payload
}

// fromPayload rebuilds located diagnostics for file.
func fromPayload(payload *DiskPayload, file *source.File) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Span:     source.Span{File: file.ID, Start: cd.Start, End: cd.End},
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: file.ID, Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		out[i] = d
	}
	diag.Locate(file, out)
	return out
}
