package metadata

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Provider answers per-document metadata queries. Paths are slash-separated
// and relative to the project root when the document lives under it.
type Provider interface {
	ModuleKind(path string) ModuleKind
	CompatibilityVersion(path string) Version
	SupportVariants(path string) map[string]SupportVariant
	Subsystems(path string) []string
	CommonModuleExports(name string) []string
}

// Entry is one [[modules]] table of bslcheck.toml.
type Entry struct {
	Path          string                    `toml:"path"`
	Kind          ModuleKind                `toml:"kind"`
	Compatibility Version                   `toml:"compatibility"`
	Support       map[string]SupportVariant `toml:"support"`
	Subsystems    []string                  `toml:"subsystems"`
	Exports       []string                  `toml:"exports"`
}

// Model is the file-backed Provider: explicit entries first, then path inference.
type Model struct {
	Compatibility Version

	mu      sync.RWMutex
	entries map[string]*Entry
	exports map[string][]string
}

// NewModel indexes entries by normalized path. Default compatibility applies
// to documents whose entry does not set one.
func NewModel(compat Version, entries []Entry) *Model {
	m := &Model{
		Compatibility: compat,
		entries:       make(map[string]*Entry, len(entries)),
		exports:       make(map[string][]string),
	}
	for i := range entries {
		e := entries[i]
		key := normalize(e.Path)
		m.entries[key] = &e
		if len(e.Exports) > 0 {
			if name, ok := CommonModuleName(e.Path); ok {
				m.exports[strings.ToLower(name)] = append([]string(nil), e.Exports...)
			}
		}
	}
	return m
}

type modelFile struct {
	Configuration struct {
		Compatibility Version `toml:"compatibility"`
	} `toml:"configuration"`
	Modules []Entry `toml:"modules"`
}

// LoadModel reads [configuration] and [[modules]] from a TOML file.
func LoadModel(file string) (*Model, error) {
	var cfg modelFile
	meta, err := toml.DecodeFile(file, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse metadata: %w", file, err)
	}
	if !meta.IsDefined("modules") && !meta.IsDefined("configuration") {
		return NewModel(Version{}, nil), nil
	}
	return NewModel(cfg.Configuration.Compatibility, cfg.Modules), nil
}

func normalize(p string) string {
	p = slash(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	return strings.ToLower(path.Clean(p))
}

func (m *Model) lookup(p string) *Entry {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := normalize(p)
	if e, ok := m.entries[key]; ok {
		return e
	}
	// абсолютный путь документа против относительного пути записи
	for k, e := range m.entries {
		if k != "" && strings.HasSuffix(key, "/"+k) {
			return e
		}
	}
	return nil
}

func (m *Model) ModuleKind(p string) ModuleKind {
	if e := m.lookup(p); e != nil && e.Kind != KindUnknown {
		return e.Kind
	}
	return InferKind(p)
}

func (m *Model) CompatibilityVersion(p string) Version {
	if e := m.lookup(p); e != nil && !e.Compatibility.IsZero() {
		return e.Compatibility
	}
	if m == nil {
		return Version{}
	}
	return m.Compatibility
}

func (m *Model) SupportVariants(p string) map[string]SupportVariant {
	e := m.lookup(p)
	if e == nil || len(e.Support) == 0 {
		return nil
	}
	out := make(map[string]SupportVariant, len(e.Support))
	for k, v := range e.Support {
		out[k] = v
	}
	return out
}

func (m *Model) Subsystems(p string) []string {
	if e := m.lookup(p); e != nil {
		return append([]string(nil), e.Subsystems...)
	}
	return nil
}

func (m *Model) CommonModuleExports(name string) []string {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.exports[strings.ToLower(name)]...)
}

// RecordExports remembers the exported methods of an analyzed common module.
func (m *Model) RecordExports(p string, names []string) {
	name, ok := CommonModuleName(p)
	if !ok || m == nil {
		return
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	m.mu.Lock()
	m.exports[strings.ToLower(name)] = sorted
	m.mu.Unlock()
}
