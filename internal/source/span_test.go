package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 3}, Span{Start: 3, End: 5}, false},
		{"intersecting", Span{Start: 0, End: 4}, Span{Start: 3, End: 5}, true},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 5}, true},
		{"two insertions at same offset", Span{Start: 4, End: 4}, Span{Start: 4, End: 4}, false},
		{"insertion inside replacement", Span{Start: 5, End: 5}, Span{Start: 3, End: 8}, true},
		{"insertion at replacement start", Span{Start: 3, End: 3}, Span{Start: 3, End: 8}, true},
		{"insertion at replacement end", Span{Start: 8, End: 8}, Span{Start: 3, End: 8}, false},
		{"different files", Span{File: 1, Start: 0, End: 4}, Span{File: 2, Start: 0, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestSpanPointsAndContains(t *testing.T) {
	a := Span{Start: 5, End: 10}
	b := Span{Start: 2, End: 7}

	assert.True(t, Span{Start: 2, End: 10}.Contains(a))
	assert.False(t, a.Contains(b))
	assert.True(t, a.Contains(a.StartPoint()))
	assert.Equal(t, Span{Start: 10, End: 10}, a.EndPoint())
}
