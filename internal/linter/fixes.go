package linter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/fix"
	"airtight/internal/source"
	"airtight/internal/trace"
)

// MaxPasses bounds FixUntilStable.
const MaxPasses = 10

// ErrNotStable is returned when fixes keep applying after MaxPasses.
var ErrNotStable = errors.New("fixes did not converge")

// ParseFunc builds a tree for a file already added to fs.
type ParseFunc func(fs *source.FileSet, id source.FileID) (*ast.Tree, error)

// ApplyFixes performs one fix pass over a file: the first fix of each
// diagnostic is taken, fixes are ordered by their first edit, and a fix
// that conflicts with one taken earlier waits for the next pass.
// It returns the new content and the number of fixes applied.
func ApplyFixes(fs *source.FileSet, id source.FileID, diags []diag.Diagnostic) ([]byte, int, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, 0, fmt.Errorf("apply fixes: unknown file %d", id)
	}
	ctx := diag.FixBuildContext{FileSet: fs}

	var fixes []diag.Fix
	for i := range diags {
		d := &diags[i]
		if len(d.Fixes) == 0 || d.Primary.File != id {
			continue
		}
		resolved, err := d.Fixes[0].Resolve(ctx)
		if err != nil || len(resolved.Edits) == 0 {
			continue
		}
		fixes = append(fixes, resolved)
	}
	if len(fixes) == 0 {
		return file.Content, 0, nil
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		return firstStart(fixes[i]) < firstStart(fixes[j])
	})
	edits, skipped := fix.MergeFixes(fixes)
	out, err := fix.ApplyEdits(file.Content, edits)
	if err != nil {
		return nil, 0, fmt.Errorf("apply fixes to %s: %w", file.Path, err)
	}
	return out, len(fixes) - skipped, nil
}

func firstStart(f diag.Fix) uint32 {
	start := f.Edits[0].Span.Start
	for _, e := range f.Edits[1:] {
		if e.Span.Start < start {
			start = e.Span.Start
		}
	}
	return start
}

// FixResult is the outcome of FixUntilStable.
type FixResult struct {
	Output      []byte
	Passes      int
	Applied     int
	Diagnostics []diag.Diagnostic // remaining after the last pass
}

// FixUntilStable lints content, applies one fix pass, re-parses the output
// and repeats until no fix applies. Diagnostics are those of the final
// content.
func (l *Linter) FixUntilStable(ctx context.Context, path string, content []byte, parse ParseFunc) (FixResult, error) {
	var res FixResult
	for {
		fs := source.NewFileSet()
		id := fs.AddVirtual(path, content)
		tree, err := parse(fs, id)
		if err != nil {
			return res, fmt.Errorf("parse %s (pass %d): %w", path, res.Passes, err)
		}
		diags, err := l.Lint(ctx, fs, tree)
		if err != nil {
			return res, err
		}
		res.Output = content
		res.Diagnostics = diags

		out, applied, err := ApplyFixes(fs, id, diags)
		if err != nil {
			return res, err
		}
		if applied == 0 {
			return res, nil
		}
		if res.Passes == MaxPasses {
			return res, fmt.Errorf("%s: %w after %d passes", path, ErrNotStable, MaxPasses)
		}
		res.Passes++
		res.Applied += applied
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "fix:"+path, fmt.Sprintf("pass %d applied %d", res.Passes, applied), trace.ParentID(ctx))
		content = out
	}
}
