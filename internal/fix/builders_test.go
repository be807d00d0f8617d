package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/source"
)

func TestEditPrimitives(t *testing.T) {
	span := source.Span{File: 1, Start: 4, End: 9}

	before := InsertBefore(span, "await ")
	assert.Equal(t, source.Span{File: 1, Start: 4, End: 4}, before.Span)
	assert.Equal(t, "await ", before.NewText)

	after := InsertAfter(span, ": Foo")
	assert.Equal(t, source.Span{File: 1, Start: 9, End: 9}, after.Span)

	del := Guard(DeleteSpan(span), "hello")
	assert.Empty(t, del.NewText)
	assert.Equal(t, "hello", del.OldText)

	assert.Equal(t, "x", ReplaceSpan(span, "x").NewText)
}

func TestComposeRejectsOverlap(t *testing.T) {
	span := source.Span{File: 1, Start: 0, End: 10}
	inner := source.Span{File: 1, Start: 2, End: 4}

	_, err := Compose("bad", ReplaceSpan(span, "x"), InsertBefore(inner, "y"))
	require.ErrorIs(t, err, ErrOverlappingEdits)

	f, err := Compose("ok", InsertBefore(span, "a"), InsertBefore(span, "b"), InsertAfter(span, "c"))
	require.NoError(t, err)
	assert.Len(t, f.Edits, 3)
	assert.Equal(t, diag.FixApplicabilityAlwaysSafe, f.Applicability)
}

func TestComposeWithOptions(t *testing.T) {
	f, err := ComposeWith("t", []diag.TextEdit{InsertBefore(source.Span{File: 1}, "x")},
		WithID("fix-1"), Preferred(), WithKind(diag.FixKindRefactor), WithRequiresAll(),
		WithApplicability(diag.FixApplicabilityManualReview))
	require.NoError(t, err)
	assert.Equal(t, "fix-1", f.ID)
	assert.True(t, f.IsPreferred)
	assert.True(t, f.RequiresAll)
	assert.Equal(t, diag.FixKindRefactor, f.Kind)
	assert.Equal(t, diag.FixApplicabilityManualReview, f.Applicability)
}

func TestLazyFixBuildsOnResolve(t *testing.T) {
	calls := 0
	f := Lazy("lazy", "lazy-1", func() ([]diag.TextEdit, error) {
		calls++
		return []diag.TextEdit{InsertBefore(source.Span{File: 1, Start: 3, End: 3}, "x")}, nil
	})
	assert.Zero(t, calls)

	resolved, err := f.Resolve(diag.FixBuildContext{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "lazy-1", resolved.ID)
	assert.Len(t, resolved.Edits, 1)
}

func TestApplyEdits(t *testing.T) {
	src := []byte("function test(foo) {}")
	param := source.Span{File: 1, Start: 14, End: 17}
	root := source.Span{File: 1, Start: 0, End: uint32(len(src))}

	tests := []struct {
		name  string
		edits []diag.TextEdit
		want  string
	}{
		{
			name: "insert after param and before root",
			edits: []diag.TextEdit{
				InsertAfter(param, ": Foo"),
				InsertBefore(root, "import type { Foo } from './types';\n"),
			},
			want: "import type { Foo } from './types';\nfunction test(foo: Foo) {}",
		},
		{
			name:  "same offset keeps order",
			edits: []diag.TextEdit{InsertBefore(param, "a"), InsertBefore(param, "b")},
			want:  "function test(abfoo) {}",
		},
		{
			name:  "replace and delete",
			edits: []diag.TextEdit{ReplaceSpan(param, "bar"), DeleteSpan(source.Span{File: 1, Start: 0, End: 9})},
			want:  "test(bar) {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(src, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestApplyEditsErrors(t *testing.T) {
	src := []byte("abc")
	_, err := ApplyEdits(src, []diag.TextEdit{ReplaceSpan(source.Span{Start: 1, End: 5}, "x")})
	assert.Error(t, err)

	_, err = ApplyEdits(src, []diag.TextEdit{Guard(ReplaceSpan(source.Span{Start: 0, End: 1}, "x"), "b")})
	assert.Error(t, err)

	_, err = ApplyEdits(src, []diag.TextEdit{ReplaceSpan(source.Span{Start: 0, End: 2}, "x"), ReplaceSpan(source.Span{Start: 1, End: 3}, "y")})
	assert.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestMergeFixesSkipsConflicts(t *testing.T) {
	a := diag.Fix{Edits: []diag.TextEdit{ReplaceSpan(source.Span{File: 1, Start: 0, End: 5}, "x")}}
	b := diag.Fix{Edits: []diag.TextEdit{ReplaceSpan(source.Span{File: 1, Start: 3, End: 8}, "y")}}
	c := diag.Fix{Edits: []diag.TextEdit{InsertBefore(source.Span{File: 1, Start: 5, End: 5}, "z")}}

	edits, skipped := MergeFixes([]diag.Fix{a, b, c})
	assert.Equal(t, 1, skipped)
	assert.Len(t, edits, 2)
}
