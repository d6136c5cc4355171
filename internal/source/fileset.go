package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns every file version seen by one run or one language server.
// Драйвер загружает файлы из нескольких горутин, поэтому всё под mutex.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet { return NewFileSetWithBase("") }

// NewFileSetWithBase sets the directory relative paths are printed from.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{latest: map[string]FileID{}, baseDir: baseDir}
}

func (s *FileSet) SetBaseDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseDir = dir
}

// BaseDir falls back to the working directory when none was set.
func (s *FileSet) BaseDir() string {
	s.mu.RLock()
	base := s.baseDir
	s.mu.RUnlock()
	if base != "" {
		return base
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add stores already normalized content as a new version of path. Каждый
// вызов даёт новый FileID; GetLatest указывает на последнюю версию.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = FileID(n)
	s.files = append(s.files, f)
	s.latest[f.Path] = f.ID
	return f.ID
}

// Load reads path from disk and normalizes it.
func (s *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return s.Add(path, content, flags), nil
}

// AddVirtual normalizes in-memory content and marks it FileVirtual.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return s.Add(name, content, flags|FileVirtual)
}

// Get returns nil for an unknown id.
func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) < len(s.files) {
		return s.files[id]
	}
	return nil
}

// Len counts stored versions, not distinct paths.
func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func (s *FileSet) GetLatest(path string) (FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latest[normalizePath(path)]
	return id, ok
}

// Resolve gives both ends of span as line/column pairs; zero values for an
// unknown file.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	if f := s.Get(span.File); f != nil {
		return f.LineCol(span.Start), f.LineCol(span.End)
	}
	return LineCol{}, LineCol{}
}
