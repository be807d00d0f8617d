package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"airtight/internal/diag"
	"airtight/internal/source"
)

// editPreview holds the whole lines an edit touches, before and after it.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, errors.New("preview: no file set")
	}
	f := fs.Get(edit.Span.File)
	if f == nil {
		return editPreview{}, fmt.Errorf("preview: unknown file %d", edit.Span.File)
	}
	start, end := fs.Resolve(edit.Span)
	lo := f.LineStart(start.Line)
	hi := max(f.LineStart(max(end.Line, start.Line)+1), lo)
	if edit.Span.Start < lo || edit.Span.End > hi || edit.Span.End < edit.Span.Start {
		return editPreview{}, fmt.Errorf("preview: edit %d..%d outside lines %d..%d", edit.Span.Start, edit.Span.End, lo, hi)
	}

	block := string(f.Content[lo:hi])
	relStart, relEnd := edit.Span.Start-lo, edit.Span.End-lo
	patched := block[:relStart] + edit.NewText + block[relEnd:]
	return editPreview{before: previewLines(block), after: previewLines(patched)}, nil
}

func previewLines(s string) []string {
	// завершающий \n не даёт пустой строки
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
