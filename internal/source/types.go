package source

// FileID identifies a file inside one FileSet: its index in load order.
type FileID uint32

// FileFlags records where a file came from and what Normalize changed.
type FileFlags uint8

const (
	// FileVirtual: содержимое пришло из памяти (буфер редактора, stdin, тест).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File is one normalized source text with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offsets of '\n' bytes in Content.
	LineIdx []uint32
	// Hash is the SHA-256 of Content after normalization.
	Hash  [32]byte
	Flags FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position is a zero-based line and UTF-16 character offset, as LSP counts.
type Position struct {
	Line      uint32
	Character uint32
}
