package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to an optional limit.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag returns a bag that accepts at most limit diagnostics; limit <= 0
// means unbounded.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add appends d and reports whether it fit under the limit.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Filter drops the diagnostics for which keep returns false.
func (b *Bag) Filter(keep func(*Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(&d) })
}

// Sort orders by file, start, end, then errors before warnings, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code(), y.Code()),
		)
	})
}
