package fix

import (
	"airtight/internal/diag"
	"airtight/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// WithRequiresAll marks a fix that only makes sense together with the other
// fixes of the run.
func WithRequiresAll() Option {
	return func(f *diag.Fix) {
		f.RequiresAll = true
	}
}

func applyOptions(f *diag.Fix, opts []Option) *diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// InsertBefore inserts text right before span.
func InsertBefore(span source.Span, text string) diag.TextEdit {
	return diag.TextEdit{Span: span.StartPoint(), NewText: text}
}

// InsertAfter inserts text right after span.
func InsertAfter(span source.Span, text string) diag.TextEdit {
	return diag.TextEdit{Span: span.EndPoint(), NewText: text}
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(span source.Span, newText string) diag.TextEdit {
	return diag.TextEdit{Span: span, NewText: newText}
}

// DeleteSpan removes text covered by span.
func DeleteSpan(span source.Span) diag.TextEdit {
	return diag.TextEdit{Span: span}
}

// Guard sets the expected original text of an edit.
func Guard(edit diag.TextEdit, expect string) diag.TextEdit {
	edit.OldText = expect
	return edit
}

// Compose builds a quick fix from edits computed against the original buffer.
// It fails with diag.ErrOverlappingEdits when two edits intersect; callers
// then report without a fix.
func Compose(title string, edits ...diag.TextEdit) (*diag.Fix, error) {
	return ComposeWith(title, edits)
}

// ComposeWith is Compose with options.
func ComposeWith(title string, edits []diag.TextEdit, opts ...Option) (*diag.Fix, error) {
	if err := diag.CheckEdits(edits); err != nil {
		return nil, err
	}
	f := &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         append([]diag.TextEdit(nil), edits...),
	}
	return applyOptions(f, opts), nil
}

// Lazy wraps a producer that computes its edits only when the fix is
// materialised.
func Lazy(title, id string, build func() ([]diag.TextEdit, error), opts ...Option) *diag.Fix {
	f := &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Thunk: diag.FixThunkFunc{
			Key: id,
			Fn: func(diag.FixBuildContext) (diag.Fix, error) {
				edits, err := build()
				if err != nil {
					return diag.Fix{}, err
				}
				return diag.Fix{Edits: edits}, nil
			},
		},
	}
	return applyOptions(f, opts)
}

// WrapWith surrounds span with prefix and suffix insertions.
func WrapWith(title string, span source.Span, prefix, suffix string, opts ...Option) *diag.Fix {
	f := &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindRefactorRewrite,
		Applicability: diag.FixApplicabilitySafeWithHeuristics,
		Edits:         []diag.TextEdit{InsertBefore(span, prefix), InsertAfter(span, suffix)},
	}
	return applyOptions(f, opts)
}
