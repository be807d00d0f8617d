package estree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"fortio.org/safecast"

	"airtight/internal/ast"
	"airtight/internal/source"
)

// ErrNotProgram is returned when the document root is not a Program.
var ErrNotProgram = errors.New("estree: root is not a Program")

// maxDepth bounds recursion on hostile documents.
const maxDepth = 2048

type object = map[string]any

type decodeError struct{ err error }

type decoder struct {
	file  source.FileID
	idx   *source.UTF16Index
	tree  *ast.Tree
	depth int
}

// DecodeFile reads the ESTree JSON at path and decodes it for file id.
func DecodeFile(fs *source.FileSet, id source.FileID, path string) (*ast.Tree, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the driver
	if err != nil {
		return nil, err
	}
	return Decode(fs, id, data)
}

// Decode builds the tree of file id from an ESTree JSON document. The tree
// is validated before it is returned.
func Decode(fs *source.FileSet, id source.FileID, data []byte) (tree *ast.Tree, err error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("estree: unknown file %d", id)
	}
	idx, err := source.NewUTF16Index(f.Content)
	if err != nil {
		return nil, fmt.Errorf("estree: %s: %w", f.Path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("estree: %s: %w", f.Path, err)
	}
	obj, ok := root.(object)
	if !ok || typeOf(obj) != "Program" {
		return nil, fmt.Errorf("%w (%s)", ErrNotProgram, f.Path)
	}

	d := &decoder{
		file: id,
		idx:  idx,
		tree: ast.NewTree(id, ast.Hints{Nodes: uint(len(data) / 96)}),
	}
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(decodeError)
			if !ok {
				panic(r)
			}
			tree, err = nil, fmt.Errorf("estree: %s: %w", f.Path, de.err)
		}
	}()

	d.program(obj)
	if err := d.tree.Validate(); err != nil {
		return nil, fmt.Errorf("estree: %s: %w", f.Path, err)
	}
	return d.tree, nil
}

func (d *decoder) fail(format string, args ...any) {
	panic(decodeError{err: fmt.Errorf(format, args...)})
}

func typeOf(o object) string {
	s, _ := o["type"].(string)
	return s
}

func str(o object, key string) string {
	s, _ := o[key].(string)
	return s
}

func flag(o object, key string) bool {
	b, _ := o[key].(bool)
	return b
}

func isNode(v any) (object, bool) {
	o, ok := v.(object)
	if !ok {
		return nil, false
	}
	_, typed := o["type"].(string)
	_, ranged := o["range"].([]any)
	return o, typed && ranged
}

// span converts the node's [start, end) range.
func (d *decoder) span(o object) source.Span {
	r, ok := o["range"].([]any)
	if !ok || len(r) != 2 {
		d.fail("%s: missing range", typeOf(o))
	}
	start, end := d.offset(r[0]), d.offset(r[1])
	if start > end {
		d.fail("%s: inverted range %d..%d", typeOf(o), start, end)
	}
	return source.Span{File: d.file, Start: start, End: end}
}

func (d *decoder) offset(v any) uint32 {
	n, ok := v.(json.Number)
	if !ok {
		d.fail("range offset %v is not a number", v)
	}
	i, err := n.Int64()
	if err != nil {
		d.fail("range offset %s: %v", n, err)
	}
	u16, err := safecast.Conv[uint32](i)
	if err != nil {
		d.fail("range offset %d: %v", i, err)
	}
	off, err := d.idx.ByteOffset(u16)
	if err != nil {
		d.fail("%v", err)
	}
	return off
}

func (d *decoder) child(o object, key string) ast.NodeID {
	v, ok := o[key]
	if !ok || v == nil {
		return ast.NoNodeID
	}
	n, ok := isNode(v)
	if !ok {
		d.fail("%s.%s is not a node", typeOf(o), key)
	}
	return d.node(n)
}

// list decodes an array field. Null entries (array holes) stay NoNodeID.
func (d *decoder) list(o object, key string) []ast.NodeID {
	arr, _ := o[key].([]any)
	if len(arr) == 0 {
		return nil
	}
	out := make([]ast.NodeID, 0, len(arr))
	for i, v := range arr {
		if v == nil {
			out = append(out, ast.NoNodeID)
			continue
		}
		n, ok := isNode(v)
		if !ok {
			d.fail("%s.%s[%d] is not a node", typeOf(o), key, i)
		}
		out = append(out, d.node(n))
	}
	return out
}

// annotation decodes a type annotation field, skipping the TSTypeAnnotation
// wrapper.
func (d *decoder) annotation(o object, key string) ast.NodeID {
	n, ok := isNode(o[key])
	if !ok {
		return ast.NoNodeID
	}
	if typeOf(n) == "TSTypeAnnotation" {
		return d.child(n, "typeAnnotation")
	}
	return d.node(n)
}

// typeArgs reads `typeArguments` (typescript-estree 6+) or the older
// `typeParameters` instantiation.
func (d *decoder) typeArgs(o object) []ast.NodeID {
	for _, key := range []string{"typeArguments", "typeParameters"} {
		if n, ok := isNode(o[key]); ok {
			return d.list(n, "params")
		}
	}
	return nil
}

// sameRange reports whether two fields hold nodes with identical ranges,
// as typescript-estree does for `{ a }` and `import { a }`.
func sameRange(a, b any) bool {
	ao, ok1 := isNode(a)
	bo, ok2 := isNode(b)
	if !ok1 || !ok2 {
		return false
	}
	ar, br := ao["range"].([]any), bo["range"].([]any)
	return len(ar) == 2 && len(br) == 2 && ar[0] == br[0] && ar[1] == br[1]
}

func (d *decoder) program(o object) {
	body := d.list(o, "body")
	var comments []source.Span
	arr, _ := o["comments"].([]any)
	for _, c := range arr {
		if co, ok := c.(object); ok {
			comments = append(comments, d.span(co))
		}
	}
	d.tree.NewProgram(d.span(o), body, comments)
}

func (d *decoder) node(o object) ast.NodeID {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		d.fail("nesting deeper than %d", maxDepth)
	}

	t := d.tree
	typ := typeOf(o)
	switch kind := ast.KindFromName(typ); kind {
	case ast.KindImportDeclaration:
		specs := d.list(o, "specifiers")
		src := d.child(o, "source")
		return t.NewImportDecl(d.span(o), specs, src, str(o, "importKind") == "type")

	case ast.KindImportSpecifier:
		local := d.child(o, "local")
		imported := local
		if !sameRange(o["imported"], o["local"]) {
			imported = d.child(o, "imported")
		}
		return t.NewImportSpec(kind, d.span(o), imported, local, str(o, "importKind") == "type")

	case ast.KindImportDefaultSpecifier, ast.KindImportNamespaceSpecifier:
		return t.NewImportSpec(kind, d.span(o), ast.NoNodeID, d.child(o, "local"), false)

	case ast.KindTSImportEqualsDeclaration:
		name := d.child(o, "id")
		ref := d.child(o, "moduleReference")
		return t.NewImportEquals(d.span(o), name, ref, str(o, "importKind") == "type", flag(o, "isExport"))

	case ast.KindExportNamedDeclaration:
		decl := d.child(o, "declaration")
		specs := d.list(o, "specifiers")
		src := d.child(o, "source")
		return t.NewExportNamed(d.span(o), decl, specs, src, str(o, "exportKind") == "type")

	case ast.KindExportSpecifier:
		local := d.child(o, "local")
		exported := local
		if !sameRange(o["exported"], o["local"]) {
			exported = d.child(o, "exported")
		}
		return t.NewExportSpec(d.span(o), local, exported)

	case ast.KindClassDeclaration, ast.KindClassExpression:
		c := ast.Class{ID: d.child(o, "id"), SuperClass: d.child(o, "superClass")}
		c.Implements = d.list(o, "implements")
		c.Body = d.child(o, "body")
		c.Abstract = flag(o, "abstract")
		return t.NewClass(kind, d.span(o), c)

	case ast.KindPropertyDefinition:
		def := ast.PropertyDef{
			Key:      d.child(o, "key"),
			Computed: flag(o, "computed"),
			Static:   flag(o, "static"),
			Readonly: flag(o, "readonly"),
		}
		def.TypeAnnotation = d.annotation(o, "typeAnnotation")
		def.Value = d.child(o, "value")
		return t.NewPropertyDef(d.span(o), def)

	case ast.KindMethodDefinition:
		return t.NewMethodDef(d.span(o), ast.MethodDef{
			Key:      d.child(o, "key"),
			Value:    d.child(o, "value"),
			Kind:     str(o, "kind"),
			Computed: flag(o, "computed"),
			Static:   flag(o, "static"),
		})

	case ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunctionExpression:
		fn := ast.Function{
			ID:         d.child(o, "id"),
			Async:      flag(o, "async"),
			Generator:  flag(o, "generator"),
			Expression: flag(o, "expression"),
		}
		fn.Params = d.list(o, "params")
		fn.ReturnType = d.annotation(o, "returnType")
		fn.Body = d.child(o, "body")
		return t.NewFunction(kind, d.span(o), fn)

	case ast.KindVariableDeclaration:
		return t.NewVarDecl(d.span(o), str(o, "kind"), d.list(o, "declarations"), flag(o, "declare"))

	case ast.KindVariableDeclarator:
		name := d.child(o, "id")
		return t.NewDeclarator(d.span(o), name, d.child(o, "init"))

	case ast.KindTSInterfaceDeclaration:
		name := d.child(o, "id")
		extends := d.list(o, "extends")
		return t.NewInterface(d.span(o), name, extends, d.child(o, "body"))

	case ast.KindTSTypeAliasDeclaration:
		name := d.child(o, "id")
		return t.NewTypeAlias(d.span(o), name, d.child(o, "typeAnnotation"))

	case ast.KindIfStatement:
		test := d.child(o, "test")
		cons := d.child(o, "consequent")
		return t.NewIf(d.span(o), test, cons, d.child(o, "alternate"))

	case ast.KindTryStatement:
		block := d.child(o, "block")
		handler := d.child(o, "handler")
		return t.NewTry(d.span(o), block, handler, d.child(o, "finalizer"))

	case ast.KindCatchClause:
		param := d.child(o, "param")
		return t.NewCatch(d.span(o), param, d.child(o, "body"))

	case ast.KindIdentifier:
		return t.NewIdent(d.span(o), str(o, "name"), d.annotation(o, "typeAnnotation"), flag(o, "optional"))

	case ast.KindLiteral:
		return t.NewLiteral(d.span(o), literal(o))

	case ast.KindProperty:
		return d.property(o)

	case ast.KindCallExpression, ast.KindNewExpression:
		callee := d.child(o, "callee")
		return t.NewCall(kind, d.span(o), callee, d.list(o, "arguments"), flag(o, "optional"))

	case ast.KindMemberExpression:
		obj := d.child(o, "object")
		return t.NewMember(d.span(o), obj, d.child(o, "property"), flag(o, "computed"), flag(o, "optional"))

	case ast.KindAssignmentPattern, ast.KindTSQualifiedName:
		left := d.child(o, "left")
		return t.NewPair(kind, d.span(o), left, d.child(o, "right"))

	case ast.KindTSTypeReference:
		name := d.child(o, "typeName")
		return t.NewTypeRef(d.span(o), name, d.typeArgs(o))

	case ast.KindTSPropertySignature:
		return t.NewPropertySignature(d.span(o), ast.PropertySignature{
			Key:            d.child(o, "key"),
			TypeAnnotation: d.annotation(o, "typeAnnotation"),
			Computed:       flag(o, "computed"),
			Optional:       flag(o, "optional"),
			Readonly:       flag(o, "readonly"),
		})

	case ast.KindTSKeyword:
		return t.NewKeyword(d.span(o), keywordName(typ))

	case ast.KindProgram:
		d.fail("nested Program")
	}

	if kind, field, ok := listShape(typ); ok {
		return t.NewList(kind, d.span(o), d.list(o, field))
	}
	if kind, field, ok := wrapShape(typ); ok {
		return t.NewWrap(kind, d.span(o), d.child(o, field))
	}
	return d.other(o)
}

// listShape maps list-shaped node types to the field holding their items.
func listShape(typ string) (ast.Kind, string, bool) {
	switch typ {
	case "ClassBody", "TSInterfaceBody", "BlockStatement":
		return ast.KindFromName(typ), "body", true
	case "ObjectExpression", "ObjectPattern":
		return ast.KindFromName(typ), "properties", true
	case "ArrayExpression", "ArrayPattern":
		return ast.KindFromName(typ), "elements", true
	case "TSTypeLiteral":
		return ast.KindTSTypeLiteral, "members", true
	case "TSIntersectionType", "TSUnionType":
		return ast.KindFromName(typ), "types", true
	}
	return ast.KindInvalid, "", false
}

// wrapShape maps single-child node types to their child field.
func wrapShape(typ string) (ast.Kind, string, bool) {
	switch typ {
	case "TSExternalModuleReference", "TSClassImplements", "ExpressionStatement":
		return ast.KindFromName(typ), "expression", true
	case "ExportDefaultDeclaration":
		return ast.KindExportDefaultDeclaration, "declaration", true
	case "ReturnStatement", "SpreadElement", "AwaitExpression", "RestElement":
		return ast.KindFromName(typ), "argument", true
	case "TSArrayType":
		return ast.KindTSArrayType, "elementType", true
	case "TSLiteralType":
		return ast.KindTSLiteralType, "literal", true
	}
	return ast.KindInvalid, "", false
}

func (d *decoder) property(o object) ast.NodeID {
	t := d.tree
	prop := ast.Property{
		Kind:      str(o, "kind"),
		Computed:  flag(o, "computed"),
		Shorthand: flag(o, "shorthand"),
		Method:    flag(o, "method"),
	}
	switch {
	case sameRange(o["key"], o["value"]):
		prop.Key = d.child(o, "key")
		prop.Value = prop.Key
	case prop.Shorthand:
		// `{ a = 1 }` in a pattern: the key is the left side of the value
		prop.Value = d.child(o, "value")
		if pair, ok := t.Pair(prop.Value); ok {
			prop.Key = pair.Left
		} else {
			prop.Key = prop.Value
		}
	default:
		prop.Key = d.child(o, "key")
		prop.Value = d.child(o, "value")
	}
	return t.NewProperty(d.span(o), prop)
}

func literal(o object) ast.Literal {
	lit := ast.Literal{Raw: str(o, "raw")}
	if _, ok := o["regex"]; ok {
		lit.Kind, lit.Value = ast.LitRegExp, lit.Raw
		return lit
	}
	if b, ok := o["bigint"].(string); ok {
		lit.Kind, lit.Value = ast.LitBigInt, b
		return lit
	}
	switch v := o["value"].(type) {
	case string:
		lit.Kind, lit.Value = ast.LitString, v
	case json.Number:
		lit.Kind, lit.Value = ast.LitNumber, lit.Raw
	case bool:
		lit.Kind, lit.Value = ast.LitBoolean, lit.Raw
	default:
		lit.Kind, lit.Value = ast.LitNull, "null"
	}
	return lit
}

// keywordName turns TSStringKeyword into "string".
func keywordName(typ string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(typ, "TS"), "Keyword"))
}

// ignoredFields never hold children.
var ignoredFields = map[string]bool{
	"type": true, "range": true, "loc": true, "parent": true,
	"comments": true, "tokens": true,
}

// other keeps an unknown node and decodes every node-valued field as a
// child, in source order. A field repeating an earlier range is skipped.
func (d *decoder) other(o object) ast.NodeID {
	type field struct {
		start uint32
		end   uint32
		node  object
	}
	var fields []field
	keys := make([]string, 0, len(o))
	for k := range o {
		if !ignoredFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	add := func(v any) {
		if n, ok := isNode(v); ok {
			sp := d.span(n)
			fields = append(fields, field{start: sp.Start, end: sp.End, node: n})
		}
	}
	for _, k := range keys {
		switch v := o[k].(type) {
		case []any:
			for _, item := range v {
				add(item)
			}
		default:
			add(v)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].start != fields[j].start {
			return fields[i].start < fields[j].start
		}
		return fields[i].end > fields[j].end
	})

	children := make([]ast.NodeID, 0, len(fields))
	var prevEnd uint32
	for i, f := range fields {
		if i > 0 && f.start < prevEnd {
			continue
		}
		children = append(children, d.node(f.node))
		prevEnd = f.end
	}
	return d.tree.NewOther(d.span(o), typeOf(o), children)
}
