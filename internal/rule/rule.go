package rule

import (
	"sort"

	"airtight/internal/ast"
)

// Type classifies what a rule checks.
type Type string

const (
	TypeProblem    Type = "problem"
	TypeSuggestion Type = "suggestion"
	TypeLayout     Type = "layout"
)

// Meta describes a rule. Messages maps message ids to templates with
// `{{ key }}` placeholders.
type Meta struct {
	Name        string
	Description string
	Type        Type
	Fixable     bool
	// Recommended rules are enabled when no configuration names any rule.
	Recommended bool
	Messages    map[string]string
}

// MessageIDs returns the declared message ids in sorted order.
func (m Meta) MessageIDs() []string {
	ids := make([]string, 0, len(m.Messages))
	for id := range m.Messages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rule is one self-contained check.
type Rule interface {
	Meta() Meta
	// Create prepares the rule for one file. An error means the rule's
	// configuration is unusable; the file is then linted without it.
	Create(ctx *Context) (Visitor, error)
}

// Handler is called with the node being entered or left.
type Handler func(id ast.NodeID)

// Visitor holds the handlers a rule registers for one file.
type Visitor struct {
	Enter map[ast.Kind]Handler
	Leave map[ast.Kind]Handler
}

// On registers an enter handler and returns v for chaining.
func (v Visitor) On(kind ast.Kind, h Handler) Visitor {
	if v.Enter == nil {
		v.Enter = make(map[ast.Kind]Handler)
	}
	v.Enter[kind] = h
	return v
}

// OnExit registers a leave handler.
func (v Visitor) OnExit(kind ast.Kind, h Handler) Visitor {
	if v.Leave == nil {
		v.Leave = make(map[ast.Kind]Handler)
	}
	v.Leave[kind] = h
	return v
}

// Empty reports whether the visitor has no handlers at all.
func (v Visitor) Empty() bool {
	return len(v.Enter) == 0 && len(v.Leave) == 0
}
