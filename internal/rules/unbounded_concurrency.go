package rules

import (
	"airtight/internal/ast"
	"airtight/internal/rule"
)

// UnboundedConcurrency flags Promise.all over a mapped collection, which
// starts every task at once.
type UnboundedConcurrency struct{}

func init() {
	Register(UnboundedConcurrency{})
}

func (UnboundedConcurrency) Meta() rule.Meta {
	return rule.Meta{
		Name:        "unbounded-concurrency",
		Description: "Disallow Promise.all over an unbounded map",
		Type:        rule.TypeProblem,
		Recommended: true,
		Messages: map[string]string{
			"unboundedConcurrency": "Promise.all over .map() runs every task at once, use a concurrency limit",
		},
	}
}

func (UnboundedConcurrency) Create(ctx *rule.Context) (rule.Visitor, error) {
	t := ctx.Tree
	return rule.Visitor{}.On(ast.KindCallExpression, func(id ast.NodeID) {
		call, _ := t.Call(id)
		m, ok := t.Member(call.Callee)
		if !ok || !t.IsIdent(m.Object, "Promise") {
			return
		}
		if name, _ := memberProperty(t, call.Callee); name != "all" {
			return
		}
		if len(call.Arguments) == 0 {
			return
		}
		inner, ok := t.Call(call.Arguments[0])
		if !ok || t.Kind(call.Arguments[0]) != ast.KindCallExpression {
			return
		}
		if name, _ := memberProperty(t, inner.Callee); name != "map" {
			return
		}
		ctx.Report(rule.Report{Node: id, MessageID: "unboundedConcurrency"})
	}), nil
}
