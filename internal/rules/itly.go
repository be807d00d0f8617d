package rules

import (
	"path/filepath"
	"strings"

	"airtight/internal/ast"
	"airtight/internal/rule"
)

// itlyFileSuffix identifies the generated Itly library.
const itlyFileSuffix = "itly/index.ts"

// itlyRule checks that every Event class of the generated Itly library
// declares a required key in its `properties` member. With viaInterface the
// key may also come from the interface named in the member's intersection
// type.
type itlyRule struct {
	name         string
	description  string
	key          string
	viaInterface bool
	messages     map[string]string
}

func isItlyFile(filename string) bool {
	return strings.HasSuffix(filepath.ToSlash(filename), itlyFileSuffix)
}

func (r itlyRule) Meta() rule.Meta {
	return rule.Meta{
		Name:        r.name,
		Description: r.description,
		Type:        rule.TypeProblem,
		Messages:    r.messages,
	}
}

func (r itlyRule) Create(ctx *rule.Context) (rule.Visitor, error) {
	t := ctx.Tree
	generated := isItlyFile(ctx.Filename)
	return rule.Visitor{}.On(ast.KindClassDeclaration, func(id ast.NodeID) {
		if !generated {
			ctx.Report(rule.Report{Node: id, MessageID: "invalidFile"})
			return
		}
		class, ok := t.Class(id)
		if !ok || !implementsEvent(t, class) {
			return
		}
		props := propertiesMember(t, class)
		if props.IsValid() && r.declaresKey(t, props) {
			return
		}
		ctx.Report(rule.Report{
			Node:      id,
			MessageID: "missingRequiredItlyProperty",
			Data:      map[string]string{"eventName": t.Name(class.ID)},
		})
	}), nil
}

func (r itlyRule) declaresKey(t *ast.Tree, props ast.NodeID) bool {
	def, _ := t.PropertyDef(props)
	if typeLiteralDeclares(t, def.TypeAnnotation, r.key) {
		return true
	}
	if objectDeclares(t, def.Value, r.key) {
		return true
	}
	if !r.viaInterface {
		return false
	}
	name := referencedInterface(t, def.TypeAnnotation)
	if name == "" {
		return false
	}
	iface := findInterface(t, t.EnclosingProgram(props), name)
	return interfaceDeclares(t, iface, r.key)
}

func implementsEvent(t *ast.Tree, class *ast.Class) bool {
	for _, impl := range class.Implements {
		if t.IsIdent(t.Target(impl), "Event") {
			return true
		}
	}
	return false
}

// propertiesMember returns the first class field keyed `properties`.
func propertiesMember(t *ast.Tree, class *ast.Class) ast.NodeID {
	for _, member := range t.Items(class.Body) {
		def, ok := t.PropertyDef(member)
		if ok && !def.Computed && t.IsIdent(def.Key, "properties") {
			return member
		}
	}
	return ast.NoNodeID
}

func keyIs(t *ast.Tree, key ast.NodeID, name string) bool {
	got, ok := t.KeyName(key)
	return ok && got == name
}

// typeLiteralDeclares covers `properties: A & { key: ... }`.
func typeLiteralDeclares(t *ast.Tree, annotation ast.NodeID, key string) bool {
	if t.Kind(annotation) != ast.KindTSIntersectionType {
		return false
	}
	for _, member := range t.Items(annotation) {
		if t.Kind(member) != ast.KindTSTypeLiteral {
			continue
		}
		for _, sig := range t.Items(member) {
			if ps, ok := t.PropertySignature(sig); ok && !ps.Computed && keyIs(t, ps.Key, key) {
				return true
			}
		}
	}
	return false
}

// objectDeclares covers `properties = { key: ... }`.
func objectDeclares(t *ast.Tree, value ast.NodeID, key string) bool {
	if t.Kind(value) != ast.KindObjectExpression {
		return false
	}
	for _, item := range t.Items(value) {
		if prop, ok := t.Property(item); ok && !prop.Computed && keyIs(t, prop.Key, key) {
			return true
		}
	}
	return false
}

// referencedInterface returns the name of the first type reference of an
// intersection annotation when it is a plain identifier.
func referencedInterface(t *ast.Tree, annotation ast.NodeID) string {
	if t.Kind(annotation) != ast.KindTSIntersectionType {
		return ""
	}
	for _, member := range t.Items(annotation) {
		ref, ok := t.TypeRef(member)
		if !ok {
			continue
		}
		if t.Kind(ref.TypeName) != ast.KindIdentifier {
			return ""
		}
		return t.Name(ref.TypeName)
	}
	return ""
}

// findInterface looks for an exported top-level interface called name.
func findInterface(t *ast.Tree, program ast.NodeID, name string) ast.NodeID {
	prog, ok := t.Program(program)
	if !ok {
		return ast.NoNodeID
	}
	for _, stmt := range prog.Body {
		export, ok := t.ExportNamed(stmt)
		if !ok {
			continue
		}
		if iface, ok := t.Interface(export.Declaration); ok && t.IsIdent(iface.ID, name) {
			return export.Declaration
		}
	}
	return ast.NoNodeID
}

func interfaceDeclares(t *ast.Tree, id ast.NodeID, key string) bool {
	iface, ok := t.Interface(id)
	if !ok {
		return false
	}
	for _, member := range t.Items(iface.Body) {
		if ps, ok := t.PropertySignature(member); ok && !ps.Computed && t.IsIdent(ps.Key, key) {
			return true
		}
	}
	return false
}

func init() {
	Register(itlyRule{
		name:        "require-itly-constant",
		description: "Enforces itly constant is set in Iteratively",
		key:         "itly",
		messages: map[string]string{
			"invalidFile":                 "require-itly-constant should only be enabled for the generated Itly library",
			"missingRequiredItlyProperty": "{{ eventName }} is missing the Iteratively property group",
		},
	})
	Register(itlyRule{
		name:         "require-itly-event-source",
		description:  "Enforces itly eventSource is set in Iteratively",
		key:          "eventSource",
		viaInterface: true,
		messages: map[string]string{
			"invalidFile":                 "require-itly-event-source should only be enabled for the generated Itly library",
			"missingRequiredItlyProperty": "{{ eventName }} is missing the Event Source property group, please update the Event at data.amplitude.com/snyk",
		},
	})
}
