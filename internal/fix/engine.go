package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"airtight/internal/diag"
	"airtight/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ErrOverlappingEdits is returned by Compose and ApplyEdits for edits that
// intersect each other.
var ErrOverlappingEdits = diag.ErrOverlappingEdits

// ApplyMode selects which fixes Apply takes.
type ApplyMode uint8

const (
	// ApplyModeOnce takes the first always-safe fix, else the first fix at all.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll takes every always-safe fix that does not conflict.
	ApplyModeAll
	// ApplyModeID takes the fix with ApplyOptions.TargetID.
	ApplyModeID
)

// ApplyOptions configures Apply. With DryRun nothing is written and each
// FileChange carries the new content instead.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	DryRun   bool
}

type AppliedFix struct {
	ID            string
	Title         string
	Code          string
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult reports one Apply pass.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(f *diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

// pending накапливает принятые правки одного файла в исходных координатах.
type pending struct {
	file  *source.File
	edits []diag.TextEdit
}

// Apply resolves the fixes of diagnostics, picks some according to opts and
// applies them. All edits of one pass are expressed against the original
// content, so a fix that overlaps an already accepted one is skipped and
// left for the next pass.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: nil file set")
	}

	cands := collect(diag.FixBuildContext{FileSet: fs}, diagnostics, res)
	if len(cands) == 0 {
		return res, ErrNoFixes
	}
	sortCandidates(cands)
	chosen := choose(cands, opts, res)

	files := make(map[source.FileID]*pending)
	var touched []source.FileID
	for _, c := range chosen {
		if reason := accept(fs, files, c.fix, opts.DryRun); reason != "" {
			res.skip(c.fix, reason)
			continue
		}
		for _, e := range c.fix.Edits {
			p := files[e.Span.File]
			if len(p.edits) == 0 {
				touched = append(touched, e.Span.File)
			}
			p.edits = append(p.edits, e)
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code(),
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   displayPath(fs, c.diag.Primary.File, source.PathAuto),
			EditCount:     len(c.fix.Edits),
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	for _, id := range touched {
		change, err := flush(fs, files[id], opts.DryRun)
		if err != nil {
			return res, err
		}
		res.FileChanges = append(res.FileChanges, change)
	}
	slices.SortStableFunc(res.FileChanges, func(a, b FileChange) int { return strings.Compare(a.Path, b.Path) })
	return res, nil
}

// accept checks f against the target files and the edits taken so far.
// It returns a skip reason, or "" when f can be applied.
func accept(fs *source.FileSet, files map[source.FileID]*pending, f *diag.Fix, dryRun bool) string {
	if err := diag.CheckEdits(f.Edits); err != nil {
		return err.Error()
	}
	for _, e := range f.Edits {
		p := files[e.Span.File]
		if p == nil {
			file := fs.Get(e.Span.File)
			if file == nil {
				return "target file is unknown"
			}
			p = &pending{file: file}
			files[e.Span.File] = p
		}
		if p.file.Flags&source.FileVirtual != 0 && !dryRun {
			return "target file is virtual"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(p.file.Content) {
			return "edit span out of range"
		}
		if e.OldText != "" && p.file.Text(e.Span) != e.OldText {
			return "existing text does not match expected content"
		}
		if overlapsAny(p.edits, e) {
			return "conflicts with previously applied edits in " + p.file.DisplayPath(source.PathAuto, "")
		}
	}
	return ""
}

func flush(fs *source.FileSet, p *pending, dryRun bool) (FileChange, error) {
	change := FileChange{
		Path:      p.file.DisplayPath(source.PathRelative, fs.BaseDir()),
		EditCount: len(p.edits),
	}
	out, err := ApplyEdits(p.file.Content, p.edits)
	if err != nil {
		return change, fmt.Errorf("%s: %w", p.file.Path, err)
	}
	if dryRun {
		change.Content = out
		return change, nil
	}
	if p.file.Flags&source.FileHadBOM != 0 {
		out = source.AddBOM(out)
	}
	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(p.file.Path); statErr == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(p.file.Path, out, perm); err != nil {
		return change, fmt.Errorf("write %s: %w", p.file.Path, err)
	}
	return change, nil
}

func overlapsAny(taken []diag.TextEdit, e diag.TextEdit) bool {
	return slices.ContainsFunc(taken, func(t diag.TextEdit) bool { return t.Span.Overlaps(e.Span) })
}

func displayPath(fs *source.FileSet, id source.FileID, style source.PathStyle) string {
	f := fs.Get(id)
	if f == nil {
		return ""
	}
	return f.DisplayPath(style, fs.BaseDir())
}
