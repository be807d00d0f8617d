package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"airtight/internal/diag"
	"airtight/internal/source"
)

// ShortOpts configures Short.
type ShortOpts struct {
	PathMode  PathMode
	WithNotes bool
}

// Short writes one line per diagnostic in bag order:
//
//	error rule/messageId path:line:col message
//
// Notes follow their diagnostic as "note" lines with the same code.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	for _, d := range bag.Items() {
		code := d.Code()
		if err := shortLine(w, fs, opts.PathMode, severityWord(d.Severity), code, d.Primary, d.Message); err != nil {
			return err
		}
		if !opts.WithNotes {
			continue
		}
		for _, n := range d.Notes {
			if err := shortLine(w, fs, opts.PathMode, "note", code, n.Span, n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func shortLine(w io.Writer, fs *source.FileSet, mode PathMode, sev, code string, span source.Span, msg string) error {
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}
	start, _ := fs.Resolve(span)
	_, err := fmt.Fprintf(w, "%s %s %s:%d:%d %s\n", sev, code, formatPath(fs, f, mode), start.Line, start.Col, oneLine(msg))
	return err
}

func severityWord(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// oneLine folds any line breaks in msg into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
