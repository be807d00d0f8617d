package trace

import (
	"fmt"
	"strings"
)

// Level is how much a run records.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // nothing streamed; the ring keeps file events for a failure dump
	LevelPhase       // driver events
	LevelFile        // plus one span per file
	LevelDebug       // plus rules and nodes
)

var levelNames = [...]string{"off", "error", "phase", "file", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names; "detail" is an alias of file.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "detail" {
		return LevelFile, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil // #nosec G115 -- bounded by levelNames
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|file|debug)", s)
}

// ShouldEmit reports whether a stream at this level writes scope.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeDriver
	case LevelFile:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}
