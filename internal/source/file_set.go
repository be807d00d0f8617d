package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of one run. It is not safe for concurrent
// mutation: load everything first, then share it read-only.
type FileSet struct {
	files []File
	base  string
}

// NewFileSet returns an empty set whose paths display relative to the
// working directory.
func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase returns an empty set displaying paths relative to base.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{base: base}
}

// SetBaseDir changes the directory relative paths are computed against.
func (s *FileSet) SetBaseDir(dir string) { s.base = dir }

// BaseDir returns the base directory, falling back to the working directory.
func (s *FileSet) BaseDir() string {
	if s.base != "" {
		return s.base
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Len returns the number of files added so far.
func (s *FileSet) Len() int { return len(s.files) }

// Add registers content under path and returns its id. Adding the same
// path twice yields two independent files.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: file too large: %w", path, err))
	}
	next, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	id := FileID(next)
	s.files = append(s.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		starts:  lineStarts(content),
	})
	return id
}

// Load reads path from disk. A leading BOM is stripped and remembered in
// the flags; line endings are kept so host offsets stay valid.
func (s *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	return s.Add(path, content, flags), nil
}

// AddVirtual registers in-memory content.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Get returns the file with id, or nil.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return &s.files[id]
}

// Resolve returns the start and end positions of span.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}
