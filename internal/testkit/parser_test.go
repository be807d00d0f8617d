package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/ast"
)

func kinds(tree *ast.Tree) []ast.Kind {
	var out []ast.Kind
	tree.Walk(tree.Root, func(id ast.NodeID, enter bool) bool {
		if enter {
			out = append(out, tree.Kind(id))
		}
		return true
	})
	return out
}

func TestParseImports(t *testing.T) {
	code := `import D, { a, b as c } from './x';
import * as ns from "ns";
import type { T } from 'types';
import fs = require('fs');
import 'side-effect';`
	_, tree := ParseString(t, "a.ts", code)
	prog, ok := tree.Program(tree.Root)
	require.True(t, ok)
	require.Len(t, prog.Body, 5)

	decl, ok := tree.Import(prog.Body[0])
	require.True(t, ok)
	require.Len(t, decl.Specifiers, 3)
	assert.Equal(t, ast.KindImportDefaultSpecifier, tree.Kind(decl.Specifiers[0]))
	spec, _ := tree.ImportSpec(decl.Specifiers[2])
	assert.Equal(t, "b", tree.Name(spec.Imported))
	assert.Equal(t, "c", tree.Name(spec.Local))
	value, _ := tree.StringValue(decl.Source)
	assert.Equal(t, "./x", value)

	ns, _ := tree.Import(prog.Body[1])
	assert.Equal(t, ast.KindImportNamespaceSpecifier, tree.Kind(ns.Specifiers[0]))

	typed, _ := tree.Import(prog.Body[2])
	assert.True(t, typed.TypeOnly)

	eq, ok := tree.ImportEqualsDecl(prog.Body[3])
	require.True(t, ok)
	assert.Equal(t, "fs", tree.Name(eq.ID))
	assert.Equal(t, ast.KindTSExternalModuleReference, tree.Kind(eq.ModuleReference))
	lit, _ := tree.Literal(tree.Target(eq.ModuleReference))
	assert.Equal(t, "'fs'", lit.Raw)
	sp := tree.Span(prog.Body[3])
	assert.Equal(t, "import fs = require('fs');", code[sp.Start:sp.End])
}

func TestParseSpansFollowESTree(t *testing.T) {
	code := "// header\nfunction test(foo: Foo, bar) { return 1; }\n"
	_, tree := ParseString(t, "a.ts", code)

	root := tree.Span(tree.Root)
	assert.EqualValues(t, 10, root.Start, "program starts at the first token")
	assert.EqualValues(t, len(code), root.End, "program ends at EOF")

	prog, _ := tree.Program(tree.Root)
	fn, ok := tree.Function(prog.Body[0])
	require.True(t, ok)
	require.Len(t, fn.Params, 2)

	foo := tree.Span(fn.Params[0])
	assert.Equal(t, "foo: Foo", code[foo.Start:foo.End], "annotated identifier covers its annotation")
	ident, _ := tree.Ident(fn.Params[0])
	assert.Equal(t, ast.KindTSTypeReference, tree.Kind(ident.TypeAnnotation))

	bar, _ := tree.Ident(fn.Params[1])
	assert.False(t, bar.TypeAnnotation.IsValid())

	ret := tree.Find(tree.Root, ast.KindReturnStatement)
	require.Len(t, ret, 1)
	sp := tree.Span(ret[0])
	assert.Equal(t, "return 1;", code[sp.Start:sp.End])
}

func TestParseClassesAndTypes(t *testing.T) {
	code := `export interface Props { eventSource: string; 'quoted'?: number }
export class Login implements Event, Other {
  name = 'login';
  properties: Props & { itly: true } = { itly: true, ...rest };
  constructor(private readonly x: number) { this.properties = { ...x }; }
  static async load() {}
}`
	_, tree := ParseString(t, "itly/index.ts", code)

	classes := tree.Find(tree.Root, ast.KindClassDeclaration)
	require.Len(t, classes, 1)
	class, _ := tree.Class(classes[0])
	assert.Equal(t, "Login", tree.Name(class.ID))
	require.Len(t, class.Implements, 2)
	assert.True(t, tree.IsIdent(tree.Target(class.Implements[0]), "Event"))

	members := tree.Items(class.Body)
	require.Len(t, members, 4)
	props, ok := tree.PropertyDef(members[1])
	require.True(t, ok)
	assert.Equal(t, ast.KindTSIntersectionType, tree.Kind(props.TypeAnnotation))
	parts := tree.Items(props.TypeAnnotation)
	require.Len(t, parts, 2)
	assert.Equal(t, ast.KindTSTypeReference, tree.Kind(parts[0]))
	assert.Equal(t, ast.KindTSTypeLiteral, tree.Kind(parts[1]))
	assert.Equal(t, ast.KindObjectExpression, tree.Kind(props.Value))

	ctor, ok := tree.MethodDef(members[2])
	require.True(t, ok)
	assert.Equal(t, "constructor", ctor.Kind)
	load, _ := tree.MethodDef(members[3])
	assert.True(t, load.Static)
	fn, _ := tree.Function(load.Value)
	assert.True(t, fn.Async)

	ifaces := tree.Find(tree.Root, ast.KindTSInterfaceDeclaration)
	require.Len(t, ifaces, 1)
	iface, _ := tree.Interface(ifaces[0])
	sigs := tree.Items(iface.Body)
	require.Len(t, sigs, 2)
	second, _ := tree.PropertySignature(sigs[1])
	assert.True(t, second.Optional)
	name, _ := tree.KeyName(second.Key)
	assert.Equal(t, "quoted", name)
}

func TestParseExpressions(t *testing.T) {
	code := `const day = async (req, res) => foo?.findAll({ where: {}, a, [k]: 1, m() {} });
router.get('/x', () => { try { return load(); } catch (e) { throw e; } finally { done(); } });
const n = new Thing(1).run(...args) as Result;
await Promise.all(items.map(x => x + 1));
export { day, n as m };
export * from './all';
export default day;`
	_, tree := ParseString(t, "a.ts", code)

	arrows := tree.Find(tree.Root, ast.KindArrowFunctionExpression)
	require.Len(t, arrows, 3)
	first, _ := tree.Function(arrows[0])
	assert.True(t, first.Async)
	assert.True(t, first.Expression)

	call, ok := tree.Call(first.Body)
	require.True(t, ok)
	member, _ := tree.Member(call.Callee)
	assert.True(t, member.Optional)
	obj := call.Arguments[0]
	props := tree.Items(obj)
	require.Len(t, props, 4)
	short, _ := tree.Property(props[1])
	assert.True(t, short.Shorthand)
	computed, _ := tree.Property(props[2])
	assert.True(t, computed.Computed)
	method, _ := tree.Property(props[3])
	assert.True(t, method.Method)

	tries := tree.Find(tree.Root, ast.KindTryStatement)
	require.Len(t, tries, 1)
	try, _ := tree.Try(tries[0])
	assert.True(t, try.Handler.IsValid())
	assert.True(t, try.Finalizer.IsValid())

	assert.Len(t, tree.Find(tree.Root, ast.KindNewExpression), 1)
	assert.Len(t, tree.Find(tree.Root, ast.KindAwaitExpression), 1)
	assert.Len(t, tree.Find(tree.Root, ast.KindExportSpecifier), 2)
	assert.Len(t, tree.Find(tree.Root, ast.KindExportDefaultDeclaration), 1)

	others := tree.Find(tree.Root, ast.KindOther)
	var types []string
	for _, id := range others {
		o, _ := tree.Other(id)
		types = append(types, o.Type)
	}
	assert.Contains(t, types, "ExportAllDeclaration")
	assert.Contains(t, types, "TSAsExpression")
	assert.Contains(t, types, "BinaryExpression")
}

func TestParseComments(t *testing.T) {
	_, tree := ParseString(t, "a.ts", "/* a */ foo({ /* b */ }); // c\n")
	prog, _ := tree.Program(tree.Root)
	assert.Len(t, prog.Comments, 3)
	objs := tree.Find(tree.Root, ast.KindObjectExpression)
	require.Len(t, objs, 1)
	assert.Empty(t, tree.Items(objs[0]))
	assert.EqualValues(t, 11, tree.Span(objs[0]).Len())
}

func TestParseErrors(t *testing.T) {
	for _, code := range []string{
		"function (",
		"const x = ;",
		"try {}",
		"'unterminated",
		"class A {",
	} {
		_, err := parse(0, []byte(code))
		assert.Error(t, err, code)
	}
}

func TestKindsInOrder(t *testing.T) {
	_, tree := ParseString(t, "a.ts", "if (a) { b(); } else c;")
	assert.Equal(t, []ast.Kind{
		ast.KindProgram, ast.KindIfStatement, ast.KindIdentifier,
		ast.KindBlockStatement, ast.KindExpressionStatement, ast.KindCallExpression, ast.KindIdentifier,
		ast.KindExpressionStatement, ast.KindIdentifier,
	}, kinds(tree))
}
