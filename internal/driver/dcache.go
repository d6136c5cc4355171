package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bslcheck/internal/diag"
	"bslcheck/internal/project"
	"bslcheck/internal/source"
)

// cacheSchema versions DiskPayload; a bump turns every old entry into a miss.
const cacheSchema uint16 = 1

// DiskCache хранит результаты анализа документов по ключу
// H(содержимое || отпечаток настроек || путь). Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached analysis of one document. Диапазоны хранятся
// смещениями: файл с тем же хешем даёт те же смещения.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []DiskDiagnostic
}

type DiskDiagnostic struct {
	Severity   uint8
	Code       string
	Message    string
	Start, End uint32
	Notes      []DiskNote
	Tags       []uint8
}

type DiskNote struct {
	Start, End uint32
	Msg        string
}

// OpenDiskCache opens app's cache under the user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux).
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	c := &DiskCache{dir: dir}
	if err := os.MkdirAll(c.docsDir(), 0o755); err != nil {
		return nil, err
	}
	return c, nil
}

// CacheKey combines the content hash with the settings fingerprint and the
// path: вид модуля выводится из пути, поэтому одинаковый текст в разных
// местах анализируется по-разному.
func CacheKey(content, fingerprint [32]byte, path string) project.Digest {
	return project.Combine(project.Digest(content), project.Digest(fingerprint), project.Hash([]byte(path)))
}

func (c *DiskCache) docsDir() string { return filepath.Join(c.dir, "docs") }

func (c *DiskCache) entry(key project.Digest) string {
	return filepath.Join(c.docsDir(), key.String()+".mp")
}

// Put stores payload under key. Запись идёт во временный файл и
// переименовывается, так что читатель не увидит половину записи.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = cacheSchema
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.docsDir(), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.docsDir(), "put-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	if err := errors.Join(werr, tmp.Close()); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), c.entry(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Get loads the entry for key into out. A missing entry and an entry of
// another schema are both misses, not errors.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entry(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == cacheSchema, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.docsDir()); err != nil {
		return err
	}
	return os.MkdirAll(c.docsDir(), 0o755)
}

func toDiskPayload(path string, ds []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{Schema: cacheSchema, Path: path}
	payload.Diagnostics = make([]DiskDiagnostic, 0, len(ds))
	for _, d := range ds {
		dd := DiskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     string(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			dd.Notes = append(dd.Notes, DiskNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, t := range d.Tags {
			dd.Tags = append(dd.Tags, uint8(t))
		}
		payload.Diagnostics = append(payload.Diagnostics, dd)
	}
	return payload
}

// fromDiskPayload restores diagnostics against file id.
func fromDiskPayload(payload *DiskPayload, id source.FileID) []diag.Diagnostic {
	if payload == nil {
		return nil
	}
	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, dd := range payload.Diagnostics {
		d := diag.New(diag.Severity(dd.Severity), diag.Code(dd.Code), source.Span{File: id, Start: dd.Start, End: dd.End}, dd.Message)
		for _, n := range dd.Notes {
			d = d.WithNote(source.Span{File: id, Start: n.Start, End: n.End}, n.Msg)
		}
		for _, t := range dd.Tags {
			d = d.WithTag(diag.Tag(t))
		}
		out = append(out, d)
	}
	return out
}
