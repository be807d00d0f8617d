package diagfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"airtight/internal/diag"
	"airtight/internal/fix"
	"airtight/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import fs = require('fs');\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.ts", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, "import-style", "importEquals", source.Span{File: fileID, Start: 0, End: 26}, "Unexpected import-equals"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.ts:1:1"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.ts:1:1"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.ts:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			assert.Contains(t, output, tt.contains)
			assert.Contains(t, output, "ERROR import-style/importEquals: Unexpected import-equals")
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "test.ts", expected: "test.ts:1:9"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.ts", expected: "file.ts:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("let x = 42\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, "r", "m", source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}

func TestPrettySnippetCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.ts", []byte("first\nconst é = await f();\nlast\n"))
	bag := diag.NewBag(1)
	// "await f()" starts after "const é = " (11 bytes, 10 cells)
	start := uint32(len("first\nconst é = "))
	bag.Add(diag.New(diag.SevError, "return-await", "requireAwait", source.Span{File: fileID, Start: start, End: start + 9}, "msg"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	assert.Equal(t, "a.ts:2:12: ERROR return-await/requireAwait: msg\n"+
		" 1 | first\n"+
		" 2 | const é = await f();\n"+
		"   |           ^~~~~~~~~\n"+
		" 3 | last\n", buf.String())
}

type staticFixThunk struct {
	fix *diag.Fix
}

func (t staticFixThunk) ID() string {
	if t.fix.ID != "" {
		return t.fix.ID
	}
	return "static-fix"
}

func (t staticFixThunk) Build(_ diag.FixBuildContext) (diag.Fix, error) {
	return *t.fix, nil
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import util from 'x'\n")
	fileID := fs.AddVirtual("test.ts", content)

	primary := source.Span{File: fileID, Start: 7, End: 11}
	d := diag.New(diag.SevWarning, "r", "m", primary, "unexpected default import")
	d = d.WithNote(source.Span{File: fileID, Start: 17, End: 20}, "module declared here")
	d = d.WithFix("insert semicolon", diag.TextEdit{Span: source.Span{File: fileID, Start: 20, End: 20}, NewText: ";"})

	staticFix := fix.WrapWith(
		"wrap import",
		source.Span{File: fileID, Start: 0, End: 20},
		"/* ",
		" */",
		fix.WithID("wrap-import-001"),
	)
	d = d.WithFixSuggestion(&diag.Fix{
		Title:         "wrap import",
		Kind:          diag.FixKindRefactor,
		Applicability: diag.FixApplicabilitySafeWithHeuristics,
		Thunk:         staticFixThunk{fix: staticFix},
	})

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()

	assert.Contains(t, output, "note: test.ts:1:18: module declared here")
	assert.Contains(t, output, "fix #1: insert semicolon")
	assert.Contains(t, output, `apply=";"`)
	assert.Contains(t, output, "id=wrap-import-001")
	assert.NotContains(t, output, "preview:")
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.ts", []byte("let a = 42 // missing semicolon"))

	insertSpan := source.Span{File: fileID, Start: 10, End: 10}
	d := diag.New(diag.SevWarning, "r", "m", insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.TextEdit{Span: insertSpan, NewText: ";"})
	bag := diag.NewBag(2)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	assert.Contains(t, output, "preview:")
	assert.Contains(t, output, "- let a = 42 // missing semicolon")
	assert.Contains(t, output, "+ let a = 42; // missing semicolon")
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.ts", []byte("x\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, "r", "m", source.Span{File: fileID, Start: 0, End: 1}, "msg"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestClipAndPad(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 0))
	assert.Equal(t, "ab…", clip("abcdef", 3))
	assert.Equal(t, "\t  ", pad("\tab"))
	assert.Equal(t, "    ", pad("日本"))
}
