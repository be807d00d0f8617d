package fix

import (
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"

	"airtight/internal/diag"
)

// ApplyEdits applies edits to content. All spans refer to content as given;
// edits are applied in descending start order so earlier offsets stay valid.
// Insertions at the same offset keep their relative order.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if err := diag.CheckEdits(edits); err != nil {
		return nil, err
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("buffer too large: %w", err)
	}
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.Span.Start != eb.Span.Start {
			return ea.Span.Start > eb.Span.Start
		}
		if ea.Span.End != eb.Span.End {
			return ea.Span.End > eb.Span.End
		}
		return order[a] > order[b]
	})

	out := append([]byte(nil), content...)
	for _, idx := range order {
		edit := edits[idx]
		if edit.Span.Start > edit.Span.End || edit.Span.End > size {
			return nil, fmt.Errorf("edit span %s out of range (len %d)", edit.Span, size)
		}
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if edit.OldText != "" && string(out[start:end]) != edit.OldText {
			return nil, fmt.Errorf("edit span %s: existing text %q does not match %q", edit.Span, out[start:end], edit.OldText)
		}
		suffix := append([]byte(nil), out[end:]...)
		out = append(append(out[:start], edit.NewText...), suffix...)
	}
	return out, nil
}

// MergeFixes collects the edits of fixes that do not conflict with fixes
// taken earlier, mirroring one application pass of the engine. It returns
// the merged edits and the number of fixes that had to be left out.
func MergeFixes(fixes []diag.Fix) ([]diag.TextEdit, int) {
	var (
		taken   []diag.TextEdit
		skipped int
	)
	for _, f := range fixes {
		if len(f.Edits) == 0 || slices.ContainsFunc(f.Edits, func(e diag.TextEdit) bool { return overlapsAny(taken, e) }) {
			skipped++
			continue
		}
		taken = append(taken, f.Edits...)
	}
	return taken, skipped
}
