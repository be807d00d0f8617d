package ast

// Arena is a typed slab. Slot 0 is never handed out, so a zero index reads
// as "no payload".
type Arena[T any] struct {
	items []T
}

// NewArena reserves room for hint payloads.
func NewArena[T any](hint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, hint)}
}

// Allocate appends v and returns its 1-based slot.
func (a *Arena[T]) Allocate(v T) uint32 {
	a.items = append(a.items, v)
	return uint32(len(a.items)) // #nosec G115 -- a tree never holds 4G payloads
}

// Get returns the payload in slot i, or nil for 0 and out-of-range slots.
func (a *Arena[T]) Get(i uint32) *T {
	if i == 0 || uint64(i) > uint64(len(a.items)) {
		return nil
	}
	return &a.items[i-1]
}

func (a *Arena[T]) Len() int {
	return len(a.items)
}
