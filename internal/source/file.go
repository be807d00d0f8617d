package source

import (
	"bytes"
	"sort"
)

// FileID identifies a file inside its FileSet.
type FileID uint32

// FileFlags records how a file entered the set.
type FileFlags uint8

const (
	// FileVirtual marks content that did not come from disk.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose UTF-8 BOM was stripped by Load.
	FileHadBOM
	// FileHasCRLF marks a file with \r\n line endings. Content is never rewritten.
	FileHasCRLF
)

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// File is one loaded source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	// starts[i] - смещение начала строки i+1, starts[0] всегда 0
	starts []uint32
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, bytes.Count(content, []byte{'\n'})+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- Add rejects files over 4GiB
		}
	}
	return starts
}

func (f *File) size() uint32 {
	return uint32(len(f.Content)) // #nosec G115 -- Add rejects files over 4GiB
}

// LineCount returns the number of lines. A trailing newline opens an empty last line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.starts)) // #nosec G115 -- bounded by file size
}

// LineStart returns the offset where line n begins. Lines past the end
// start at len(Content).
func (f *File) LineStart(n uint32) uint32 {
	switch {
	case n <= 1:
		return 0
	case n > f.LineCount():
		return f.size()
	default:
		return f.starts[n-1]
	}
}

// Line returns line n without its terminator, or "" when there is no such line.
func (f *File) Line(n uint32) string {
	if n == 0 || n > f.LineCount() {
		return ""
	}
	start := f.starts[n-1]
	end := f.size()
	if n < f.LineCount() {
		end = f.starts[n] - 1
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

// Position converts a byte offset into a line and column. Offsets past the
// end land on the last line.
func (f *File) Position(off uint32) LineCol {
	// первая строка, начинающаяся правее off
	next := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off })
	start := f.starts[next-1]
	return LineCol{Line: uint32(next), Col: off - start + 1} // #nosec G115 -- bounded by file size
}

// Text returns the bytes under span clamped to the file.
func (f *File) Text(span Span) string {
	n := f.size()
	start, end := min(span.Start, n), min(span.End, n)
	if end < start {
		return ""
	}
	return string(f.Content[start:end])
}
