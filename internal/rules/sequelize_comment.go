package rules

import (
	"fmt"

	"airtight/internal/ast"
	"airtight/internal/fix"
	"airtight/internal/rule"
)

// SequelizeComment requires a `comment` property on Sequelize finder
// options so queries can be traced back to their call site.
type SequelizeComment struct{}

func init() {
	Register(SequelizeComment{})
}

var sequelizeFinders = map[string]bool{
	"findAll":      true,
	"findOne":      true,
	"findOrCreate": true,
}

func (SequelizeComment) Meta() rule.Meta {
	return rule.Meta{
		Name:        "sequelize-comment",
		Description: "Require a comment on Sequelize finder calls",
		Type:        rule.TypeProblem,
		Recommended: true,
		Fixable:     true,
		Messages: map[string]string{
			"requiresComment": "The `comment` property is required",
		},
	}
}

func (SequelizeComment) Create(ctx *rule.Context) (rule.Visitor, error) {
	t := ctx.Tree
	pathEnd := lastSegments(ctx.Filename, 3)

	return rule.Visitor{}.On(ast.KindCallExpression, func(id ast.NodeID) {
		call, _ := t.Call(id)
		method, ok := memberProperty(t, call.Callee)
		if !ok || !sequelizeFinders[method] {
			return
		}
		if len(call.Arguments) != 1 {
			return
		}
		arg := call.Arguments[0]
		if t.Kind(arg) != ast.KindObjectExpression || hasIdentKey(t, arg, "comment") {
			return
		}

		report := rule.Report{Node: id, MessageID: "requiresComment"}
		props := t.Items(arg)
		// `{ /* note */ }` has neither a first property to anchor on nor
		// a bare `{}` to replace
		trulyEmpty := t.Span(arg).Len() == 2
		if name := enclosingName(t, id); name != "" && (len(props) > 0 || trulyEmpty) {
			text := fmt.Sprintf("comment: '%s:%s', ", pathEnd, name)
			edit := fix.ReplaceSpan(t.Span(arg), "{"+text+"}")
			if len(props) > 0 {
				edit = fix.InsertBefore(t.Span(props[0]), text)
			}
			if f, err := fix.Compose("add query comment", edit); err == nil {
				report.Fix = f
			}
		}
		ctx.Report(report)
	}), nil
}

// enclosingName names the code a node belongs to: the declared function,
// the variable an arrow function is bound to, `<verb>:<path>` for arrows
// passed to router.<verb>('<path>', ...), or the method name.
func enclosingName(t *ast.Tree, id ast.NodeID) string {
	for node := id; node.IsValid(); node = t.Parent(node) {
		switch t.Kind(node) {
		case ast.KindFunctionDeclaration:
			fn, _ := t.Function(node)
			return t.Name(fn.ID)
		case ast.KindArrowFunctionExpression:
			parent := t.Parent(node)
			if decl, ok := t.Declarator(parent); ok && t.Kind(decl.ID) == ast.KindIdentifier {
				return t.Name(decl.ID)
			}
			if name, ok := routeName(t, parent); ok {
				return name
			}
		case ast.KindMethodDefinition:
			def, _ := t.MethodDef(node)
			if t.Kind(def.Key) == ast.KindIdentifier {
				return t.Name(def.Key)
			}
		}
	}
	return ""
}

func routeName(t *ast.Tree, id ast.NodeID) (string, bool) {
	call, ok := t.Call(id)
	if !ok || t.Kind(id) != ast.KindCallExpression || len(call.Arguments) != 2 {
		return "", false
	}
	m, ok := t.Member(call.Callee)
	if !ok || !t.IsIdent(m.Object, "router") || t.Kind(m.Property) != ast.KindIdentifier {
		return "", false
	}
	lit, ok := t.Literal(call.Arguments[0])
	if !ok {
		return "", false
	}
	return t.Name(m.Property) + ":" + lit.Value, true
}
