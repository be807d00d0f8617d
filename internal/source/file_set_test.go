package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSetSamePathTwice(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("./src/../test.ts", []byte("hello world"), 0)
	id2 := fs.Add("test.ts", []byte("hello universe"), 0)
	assert.Equal(t, FileID(0), id1)
	assert.Equal(t, FileID(1), id2)
	assert.Equal(t, 2, fs.Len())

	assert.Equal(t, "test.ts", fs.Get(id1).Path)
	assert.Equal(t, "hello world", string(fs.Get(id1).Content))
	assert.Equal(t, "hello universe", string(fs.Get(id2).Content))
	assert.NotEqual(t, fs.Get(id1).Hash, fs.Get(id2).Hash)
	assert.Nil(t, fs.Get(FileID(42)))
}

func TestAddVirtualLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("a\nb\n"))
	file := fs.Get(id)

	assert.NotZero(t, file.Flags&FileVirtual)
	assert.Equal(t, uint32(3), file.LineCount())
	assert.Equal(t, uint32(0), file.LineStart(1))
	assert.Equal(t, uint32(2), file.LineStart(2))
	assert.Equal(t, uint32(4), file.LineStart(3))
	assert.Equal(t, uint32(4), file.LineStart(9))
	assert.Equal(t, "b", file.Line(2))
	assert.Empty(t, file.Line(3))
	assert.Empty(t, file.Line(4))
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{8, LineCol{Line: 4, Col: 2}},
		{20, LineCol{Line: 4, Col: 14}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		assert.Equal(t, tc.want, start, "offset %d", tc.off)
	}
}

func TestLoadStripsBOMAndKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.ts")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFa;\r\nb;\r\n"), 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)

	file := fs.Get(id)
	assert.Equal(t, "a;\r\nb;\r\n", string(file.Content))
	assert.NotZero(t, file.Flags&FileHadBOM)
	assert.NotZero(t, file.Flags&FileHasCRLF)
	assert.Equal(t, "b;", file.Line(2))
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("import x = require('./a');"))
	file := fs.Get(id)

	assert.Equal(t, "import", file.Text(Span{File: id, Start: 0, End: 6}))
	assert.Equal(t, ";", file.Text(Span{File: id, Start: 25, End: 99}))
	assert.Empty(t, file.Text(Span{File: id, Start: 99, End: 100}))
}

func TestDisplayPath(t *testing.T) {
	fs := NewFileSet()
	long := "/very/long/absolute/path/to/some/project/src/file.ts"
	file := fs.Get(fs.AddVirtual(long, nil))

	assert.Equal(t, "file.ts", file.DisplayPath(PathBasename, ""))
	assert.Equal(t, "file.ts", file.DisplayPath(PathAuto, ""))
	assert.Equal(t, "src/file.ts", file.DisplayPath(PathRelative, "/very/long/absolute/path/to/some/project"))
	assert.Equal(t, long, file.DisplayPath(PathAbsolute, ""))

	short := fs.Get(fs.AddVirtual("src/a.ts", nil))
	assert.Equal(t, "src/a.ts", short.DisplayPath(PathAuto, ""))
}

func TestAddBOM(t *testing.T) {
	assert.Equal(t, []byte("\xEF\xBB\xBFx"), AddBOM([]byte("x")))
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.ts")

	got, err := RelativePath(target, baseDir)
	require.NoError(t, err)
	assert.Equal(t, normalizePath(target), got)

	got, err = RelativePath(filepath.Join(baseDir, "src", "a.ts"), baseDir)
	require.NoError(t, err)
	assert.Equal(t, "src/a.ts", got)
}
