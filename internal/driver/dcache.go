package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"airtight/internal/diag"
	"airtight/internal/linter"
	"airtight/internal/source"
	"airtight/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [sha256.Size]byte

// DiskCache хранит результаты линтинга по Digest на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the diagnostics of one file. Lazy fixes are stored
// resolved; spans are stored without a file id and rebound on load.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Diagnostics []cachedDiagnostic
}

type cachedDiagnostic struct {
	Severity  uint8
	Rule      string
	MessageID string
	Message   string
	Data      map[string]string
	Start     uint32
	End       uint32
	Notes     []cachedNote
	Fixes     []cachedFix
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	RequiresAll   bool
	Edits         []cachedEdit
}

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
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

// OpenDiskCacheAt opens a disk cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки: подкаталог "lint".
	return filepath.Join(c.dir, "lint", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
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
	renamed := false
	defer func() {
		if !renamed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache. A payload
// written under another schema counts as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
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

	// тривиально: переименуем каталог и удалим
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
	return os.MkdirAll(c.dir, 0o755)
}

// CacheKey derives the key of one file's lint result. It covers everything
// a rule can observe: the source bytes, the tree document, the displayed
// path and working directory, the configuration and the enabled rules with
// their severities.
func CacheKey(file *source.File, tree []byte, cwd string, configDigest [sha256.Size]byte, entries []linter.Entry) Digest {
	h := sha256.New()
	var buf [4]byte
	writeField := func(b []byte) {
		binary.LittleEndian.PutUint32(buf[:], uint32(len(b))) // #nosec G115 -- cache key only
		h.Write(buf[:])
		h.Write(b)
	}
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	h.Write(buf[:2])
	writeField([]byte(version.Version))
	writeField(file.Hash[:])
	treeHash := sha256.Sum256(tree)
	writeField(treeHash[:])
	writeField([]byte(file.Path))
	writeField([]byte(cwd))
	writeField(configDigest[:])

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Rule.Meta().Name+"="+e.Severity.String())
	}
	sort.Strings(names)
	for _, n := range names {
		writeField([]byte(n))
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// toDiskPayload converts diagnostics of one file for caching. Lazy fixes are
// resolved now; a fix that fails to resolve is dropped.
func toDiskPayload(fs *source.FileSet, path string, diags []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		Diagnostics: make([]cachedDiagnostic, 0, len(diags)),
	}
	ctx := diag.FixBuildContext{FileSet: fs}
	for i := range diags {
		d := &diags[i]
		cd := cachedDiagnostic{
			Severity:  uint8(d.Severity),
			Rule:      d.Rule,
			MessageID: d.MessageID,
			Message:   d.Message,
			Data:      d.Data,
			Start:     d.Primary.Start,
			End:       d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			resolved, err := f.Resolve(ctx)
			if err != nil {
				continue
			}
			cf := cachedFix{
				ID:            resolved.ID,
				Title:         resolved.Title,
				Kind:          uint8(resolved.Kind),
				Applicability: uint8(resolved.Applicability),
				IsPreferred:   resolved.IsPreferred,
				RequiresAll:   resolved.RequiresAll,
			}
			for _, e := range resolved.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{
					Start:   e.Span.Start,
					End:     e.Span.End,
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// fromDiskPayload rebuilds the diagnostics against file id.
func fromDiskPayload(payload *DiskPayload, id source.FileID) []diag.Diagnostic {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	span := func(start, end uint32) source.Span {
		return source.Span{File: id, Start: start, End: end}
	}
	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity:  diag.Severity(cd.Severity),
			Rule:      cd.Rule,
			MessageID: cd.MessageID,
			Message:   cd.Message,
			Data:      cd.Data,
			Primary:   span(cd.Start, cd.End),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			f := &diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.IsPreferred,
				RequiresAll:   cf.RequiresAll,
			}
			for _, e := range cf.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{Span: span(e.Start, e.End), NewText: e.NewText, OldText: e.OldText})
			}
			d.Fixes = append(d.Fixes, f)
		}
		out = append(out, d)
	}
	return out
}
