package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"airtight/internal/diag"
	"airtight/internal/source"
)

// LocationJSON is a span in the JSON report. Line and column fields are
// only filled when positions are requested.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is one fix. A lazy fix that fails to build keeps its header and
// carries the failure in BuildError.
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	BuildError    string        `json:"build_error,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity  string            `json:"severity"`
	Code      string            `json:"code"`
	Rule      string            `json:"rule,omitempty"`
	MessageID string            `json:"message_id,omitempty"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	Location  LocationJSON      `json:"location"`
	Notes     []NoteJSON        `json:"notes,omitempty"`
	Fixes     []FixJSON         `json:"fixes,omitempty"`
}

// DiagnosticsOutput корень JSON-отчёта.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
	ctx  diag.FixBuildContext
}

func (b *jsonBuilder) location(span source.Span) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if f := b.fs.Get(span.File); f != nil {
		loc.File = formatPath(b.fs, f, b.opts.PathMode)
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b *jsonBuilder) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity:  d.Severity.String(),
		Code:      d.Code(),
		Rule:      d.Rule,
		MessageID: d.MessageID,
		Message:   d.Message,
		Data:      d.Data,
		Location:  b.location(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, f := range preferredFirst(d.Fixes) {
			out.Fixes = append(out.Fixes, b.fix(f))
		}
	}
	return out
}

func (b *jsonBuilder) fix(f *diag.Fix) FixJSON {
	resolved, err := f.Resolve(b.ctx)
	out := FixJSON{
		ID:            resolved.ID,
		Title:         resolved.Title,
		Kind:          resolved.Kind.String(),
		Applicability: resolved.Applicability.String(),
		IsPreferred:   resolved.IsPreferred,
	}
	if err != nil {
		out.BuildError = err.Error()
		return out
	}
	for _, e := range resolved.Edits {
		ej := FixEditJSON{Location: b.location(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, perr := previewEdit(b.fs, e); perr == nil {
				ej.BeforeLines, ej.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// preferredFirst orders fixes: preferred, safest, kind, title, id.
func preferredFirst(fixes []*diag.Fix) []*diag.Fix {
	out := slices.Clone(fixes)
	slices.SortStableFunc(out, func(a, b *diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			cmp.Compare(a.Kind, b.Kind),
			strings.Compare(a.Title, b.Title),
			strings.Compare(a.ID, b.ID),
		)
	})
	return out
}

// BuildDiagnosticsOutput builds the report without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil || fs == nil {
		return out, nil
	}
	b := &jsonBuilder{fs: fs, opts: opts, ctx: diag.FixBuildContext{FileSet: fs}}
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(&items[i]))
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

// JSON writes the indented report to w.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
