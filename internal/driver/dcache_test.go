package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/source"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	var key Digest
	key[0] = 0xab
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	in := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   "src/a.ts",
		Diagnostics: []cachedDiagnostic{
			{Severity: uint8(diag.SevError), Rule: "r", MessageID: "m", Message: "msg", Start: 1, End: 3},
		},
	}
	require.NoError(t, cache.Put(key, in))

	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.Path, out.Path)
	assert.Equal(t, in.Diagnostics, out.Diagnostics)

	require.NoError(t, cache.DropAll())
	out = DiskPayload{}
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskCacheIgnoresOtherSchema(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	var key Digest
	require.NoError(t, cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1}))

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	require.NoError(t, cache.Put(Digest{}, &DiskPayload{}))
	ok, err := cache.Get(Digest{}, &DiskPayload{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cache.Dir())
}

func TestPayloadRebindsSpans(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("other.ts", []byte("z"))
	id := fs.AddVirtual("a.ts", []byte("x;\n"))

	d := diag.NewError("r", "m", source.Span{File: id, Start: 0, End: 1}, "msg").
		WithNote(source.Span{File: id, Start: 1, End: 2}, "note").
		WithFix("fix it", diag.TextEdit{Span: source.Span{File: id, Start: 0, End: 1}, NewText: "y", OldText: "x"})

	payload := toDiskPayload(fs, "a.ts", []diag.Diagnostic{d})
	back := fromDiskPayload(payload, 7)
	require.Len(t, back, 1)
	assert.Equal(t, source.Span{File: 7, Start: 0, End: 1}, back[0].Primary)
	assert.Equal(t, []diag.Note{{Span: source.Span{File: 7, Start: 1, End: 2}, Msg: "note"}}, back[0].Notes)
	require.Len(t, back[0].Fixes, 1)
	assert.Equal(t, "fix it", back[0].Fixes[0].Title)
	assert.Equal(t, []diag.TextEdit{{Span: source.Span{File: 7, Start: 0, End: 1}, NewText: "y", OldText: "x"}}, back[0].Fixes[0].Edits)

	assert.Nil(t, fromDiskPayload(&DiskPayload{Schema: 0}, id))
}
