package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"airtight/internal/diag"
	"airtight/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, code      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	removed, added  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		path:    color.New(color.Bold),
		code:    color.New(color.FgMagenta),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.code, p.gutter, p.caret, p.note, p.fix, p.removed, p.added} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i := range bag.Items() {
		d := &bag.Items()[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		sev.Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code()),
		d.Message,
	)
	writeSnippet(w, fs, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, note.Span, opts.PathMode), note.Msg)
		}
	}

	if opts.ShowFixes || opts.ShowPreview {
		ctx := diag.FixBuildContext{FileSet: fs}
		for i, f := range preferredFirst(d.Fixes) {
			resolved, err := f.Resolve(ctx)
			header := fmt.Sprintf("fix #%d: %s", i+1, resolved.Title)
			fmt.Fprintf(w, "  %s", pal.fix.Sprint(header))
			if resolved.ID != "" {
				fmt.Fprintf(w, " (id=%s, %s)", resolved.ID, resolved.Applicability)
			} else {
				fmt.Fprintf(w, " (%s)", resolved.Applicability)
			}
			fmt.Fprintln(w)
			if err != nil {
				fmt.Fprintf(w, "    unavailable: %v\n", err)
				continue
			}
			for _, edit := range resolved.Edits {
				fmt.Fprintf(w, "    %s apply=%s\n", location(fs, edit.Span, opts.PathMode), strconv.Quote(edit.NewText))
				if !opts.ShowPreview {
					continue
				}
				preview, perr := previewEdit(fs, edit)
				if perr != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, line := range preview.before {
					fmt.Fprintf(w, "      %s\n", pal.removed.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "      %s\n", pal.added.Sprint("+ "+line))
				}
			}
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

// writeSnippet prints the primary line with Context lines around it and a
// caret line under the span. Columns are measured in display cells.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	ctxLines := uint32(max(opts.Context, 0)) // #nosec G115 -- non-negative int8
	first := uint32(1)
	if start.Line > ctxLines {
		first = start.Line - ctxLines
	}
	last := min(start.Line+ctxLines, f.LineCount())
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.Line(ln)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprint(fmt.Sprintf("%*d |", gutterWidth, ln)), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		prefixLen := min(int(start.Col)-1, len(text))
		prefix := text[:max(prefixLen, 0)]
		markLen := 1
		if end.Line == start.Line && end.Col > start.Col {
			markEnd := min(int(end.Col)-1, len(text))
			markLen = max(runewidth.StringWidth(text[len(prefix):markEnd]), 1)
		} else if end.Line > start.Line {
			markLen = max(runewidth.StringWidth(text[len(prefix):]), 1)
		}
		marker := "^" + strings.Repeat("~", markLen-1)
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"), pad(prefix), pal.caret.Sprint(marker))
	}
}

// pad returns blanks as wide as s, keeping tabs so the caret lines up.
func pad(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
