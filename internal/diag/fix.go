package diag

import (
	"errors"
	"fmt"

	"airtight/internal/source"
)

// ErrOverlappingEdits marks a fix whose edits intersect each other.
var ErrOverlappingEdits = errors.New("fix edits overlap")

// TextEdit replaces Span in the original buffer with NewText. OldText, when
// set, guards the replacement: the edit only applies if the span still holds
// exactly that text.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// FixBuildContext is handed to lazy fixes when they are materialised.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds the edits of a fix on demand.
type FixThunk interface {
	ID() string
	Build(ctx FixBuildContext) (Fix, error)
}

// FixThunkFunc adapts a closure to FixThunk.
type FixThunkFunc struct {
	Key string
	Fn  func(ctx FixBuildContext) (Fix, error)
}

func (f FixThunkFunc) ID() string { return f.Key }

func (f FixThunkFunc) Build(ctx FixBuildContext) (Fix, error) {
	if f.Fn == nil {
		return Fix{}, errors.New("fix thunk has no builder")
	}
	return f.Fn(ctx)
}

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	RequiresAll   bool
	Edits         []TextEdit
	Thunk         FixThunk
}

// Resolve returns the materialised fix: the thunk output merged over the
// static metadata. Overlapping edits are an error.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, errors.New("nil fix")
	}
	out := *f
	if f.Thunk != nil {
		built, err := f.Thunk.Build(ctx)
		if err != nil {
			return out, fmt.Errorf("build fix %q: %w", f.Title, err)
		}
		if built.Title != "" {
			out.Title = built.Title
		}
		if out.ID == "" {
			out.ID = built.ID
		}
		if out.ID == "" {
			out.ID = f.Thunk.ID()
		}
		out.Edits = built.Edits
		out.Thunk = nil
	}
	if err := CheckEdits(out.Edits); err != nil {
		return out, err
	}
	return out, nil
}

// CheckEdits reports ErrOverlappingEdits when any two edits conflict.
// Two insertions at the same offset are allowed.
func CheckEdits(edits []TextEdit) error {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if edits[i].Span.Overlaps(edits[j].Span) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, edits[i].Span, edits[j].Span)
			}
		}
	}
	return nil
}

// MaterializeFixes resolves every fix. A fix that fails to build is dropped
// and its error joined into the returned error; the rest are kept.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	var errs []error
	for _, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, resolved)
	}
	return out, errors.Join(errs...)
}
