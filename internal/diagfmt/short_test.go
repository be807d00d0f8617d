package diagfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/source"
)

func TestShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/src/sample.ts", []byte("a\nb\n"), 0)

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, "param-types", "mustBeTyped", source.Span{File: file, Start: 0, End: 1}, "first line\r\nsecond").
		WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"))
	bag.Add(diag.New(diag.SevWarning, "import-style", "useRegularImport", source.Span{File: file, Start: 2, End: 3}, "another"))
	bag.Add(diag.New(diag.SevInfo, "", "configError", source.Span{File: source.FileID(9)}, "unknown file"))

	var buf bytes.Buffer
	require.NoError(t, Short(&buf, bag, fs, ShortOpts{PathMode: PathModeRelative, WithNotes: true}))
	assert.Equal(t, "error param-types/mustBeTyped src/sample.ts:1:1 first line second\n"+
		"note param-types/mustBeTyped src/sample.ts:2:1 note line\n"+
		"warning import-style/useRegularImport src/sample.ts:2:1 another\n", buf.String())

	buf.Reset()
	require.NoError(t, Short(&buf, bag, fs, ShortOpts{PathMode: PathModeBasename}))
	assert.NotContains(t, buf.String(), "note")
	assert.Contains(t, buf.String(), "error param-types/mustBeTyped sample.ts:1:1")
}
