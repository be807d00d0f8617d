package rules

import (
	"airtight/internal/ast"
	"airtight/internal/fix"
	"airtight/internal/rule"
)

// ReturnAwait flags `return call()` inside the try block of an async
// function: without await a rejection escapes the surrounding catch.
type ReturnAwait struct{}

func init() {
	Register(ReturnAwait{})
}

func (ReturnAwait) Meta() rule.Meta {
	return rule.Meta{
		Name:        "return-await",
		Description: "Await returned promises inside try blocks",
		Type:        rule.TypeProblem,
		Recommended: true,
		Fixable:     true,
		Messages: map[string]string{
			"requiresAwait": "Returned promise must be awaited inside a try block",
		},
	}
}

func (ReturnAwait) Create(ctx *rule.Context) (rule.Visitor, error) {
	t := ctx.Tree
	return rule.Visitor{}.On(ast.KindReturnStatement, func(id ast.NodeID) {
		arg := t.Target(id)
		if t.Kind(arg) != ast.KindCallExpression {
			return
		}
		if !insideAsyncTry(t, id) {
			return
		}
		report := rule.Report{Node: arg, MessageID: "requiresAwait"}
		if f, err := fix.Compose("await returned promise", fix.InsertBefore(t.Span(arg), "await ")); err == nil {
			report.Fix = f
		}
		ctx.Report(report)
	}), nil
}

// insideAsyncTry reports whether id sits in the block (not the handler or
// finalizer) of a try statement within the nearest enclosing function,
// and that function is async.
func insideAsyncTry(t *ast.Tree, id ast.NodeID) bool {
	inTry := false
	child := id
	for node := t.Parent(id); node.IsValid(); child, node = node, t.Parent(node) {
		if t.Kind(node).IsFunction() {
			fn, _ := t.Function(node)
			return inTry && fn.Async
		}
		if try, ok := t.Try(node); ok && try.Block == child {
			inTry = true
		}
	}
	return false
}
