package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether two spans conflict as edit targets.
// Zero-width spans never overlap each other. A zero-width span overlaps a
// non-empty span when Start <= pos < End.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File {
		return false
	}
	if s.Empty() && other.Empty() {
		return false
	}
	if s.Empty() {
		return other.Start <= s.Start && s.Start < other.End
	}
	if other.Empty() {
		return s.Start <= other.Start && other.Start < s.End
	}
	return s.Start < other.End && other.Start < s.End
}

// StartPoint returns the zero-width span at s.Start.
func (s Span) StartPoint() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// EndPoint returns the zero-width span at s.End.
func (s Span) EndPoint() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
