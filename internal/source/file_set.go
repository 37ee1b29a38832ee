package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and provides global byte offset resolution.
// A FileSet is not safe for concurrent Add; callers load files first and then share it read-only.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (editor buffer, stdin, test) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// HasFile reports whether id refers to a file of this set.
func (fileSet *FileSet) HasFile(id FileID) bool {
	return int(id) < len(fileSet.files)
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return f.Resolve(span)
}

// Resolve converts a span of this file into line and column positions.
func (f *File) Resolve(span Span) (start, end LineCol) {
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Position returns the line/column of a single offset.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Offset converts a 1-based line/column pair back into a byte offset, clamping to the file.
func (f *File) Offset(pos LineCol) uint32 {
	size := f.Size()
	if pos.Line == 0 {
		return 0
	}
	var start uint32
	switch {
	case pos.Line == 1:
		start = 0
	case int(pos.Line-2) < len(f.LineIdx):
		start = f.LineIdx[pos.Line-2] + 1
	default:
		return size
	}
	end := size
	if int(pos.Line-1) < len(f.LineIdx) {
		end = f.LineIdx[pos.Line-1]
	}
	off := start
	if pos.Col > 1 {
		off = start + pos.Col - 1
	}
	if off > end {
		off = end
	}
	return off
}

// Size returns the content length in bytes.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	size := f.Size()
	var start uint32
	switch {
	case lineNum == 1:
		start = 0
	case int(lineNum-2) < len(f.LineIdx):
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	end := size
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start >= size {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the source text covered by span.
func (f *File) Text(span Span) string {
	size := f.Size()
	start, end := span.Start, span.End
	if end > size {
		end = size
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}
