package ast

import "airtight/internal/source"

// Class backs ClassDeclaration and ClassExpression.
type Class struct {
	ID         NodeID // NoNodeID for anonymous classes
	SuperClass NodeID
	Implements []NodeID // TSClassImplements
	Body       NodeID   // ClassBody
	Abstract   bool
}

// PropertyDef is a class field. TypeAnnotation points at the type node
// itself (the `: ` wrapper is not kept).
type PropertyDef struct {
	Key            NodeID
	TypeAnnotation NodeID
	Value          NodeID
	Computed       bool
	Static         bool
	Readonly       bool
}

type MethodDef struct {
	Key      NodeID
	Value    NodeID // FunctionExpression
	Kind     string // method, get, set, constructor
	Computed bool
	Static   bool
}

// Function backs FunctionDeclaration, FunctionExpression and
// ArrowFunctionExpression. Expression marks arrows with an expression body.
type Function struct {
	ID         NodeID
	Params     []NodeID
	ReturnType NodeID
	Body       NodeID
	Async      bool
	Generator  bool
	Expression bool
}

type VarDecl struct {
	Kind         string // var, let, const
	Declarations []NodeID
	Declare      bool
}

type Declarator struct {
	ID   NodeID
	Init NodeID
}

type Interface struct {
	ID      NodeID
	Extends []NodeID
	Body    NodeID // TSInterfaceBody
}

type TypeAlias struct {
	ID             NodeID
	TypeAnnotation NodeID
}

func (t *Tree) NewClass(kind Kind, span source.Span, c Class) NodeID {
	payload := PayloadID(t.Classes.Allocate(c))
	return t.newNode(kind, span, payload, concat(ids(c.ID, c.SuperClass), c.Implements, ids(c.Body))...)
}

func (t *Tree) Class(id NodeID) (*Class, bool) {
	p, ok := t.payload(id, KindClassDeclaration, KindClassExpression)
	if !ok {
		return nil, false
	}
	return t.Classes.Get(uint32(p)), true
}

func (t *Tree) NewPropertyDef(span source.Span, d PropertyDef) NodeID {
	payload := PayloadID(t.PropertyDefs.Allocate(d))
	return t.newNode(KindPropertyDefinition, span, payload, ids(d.Key, d.TypeAnnotation, d.Value)...)
}

func (t *Tree) PropertyDef(id NodeID) (*PropertyDef, bool) {
	p, ok := t.payload(id, KindPropertyDefinition)
	if !ok {
		return nil, false
	}
	return t.PropertyDefs.Get(uint32(p)), true
}

func (t *Tree) NewMethodDef(span source.Span, d MethodDef) NodeID {
	payload := PayloadID(t.MethodDefs.Allocate(d))
	return t.newNode(KindMethodDefinition, span, payload, ids(d.Key, d.Value)...)
}

func (t *Tree) MethodDef(id NodeID) (*MethodDef, bool) {
	p, ok := t.payload(id, KindMethodDefinition)
	if !ok {
		return nil, false
	}
	return t.MethodDefs.Get(uint32(p)), true
}

func (t *Tree) NewFunction(kind Kind, span source.Span, fn Function) NodeID {
	payload := PayloadID(t.Functions.Allocate(fn))
	return t.newNode(kind, span, payload, concat(ids(fn.ID), fn.Params, ids(fn.ReturnType, fn.Body))...)
}

// Function returns the payload of any function-like node.
func (t *Tree) Function(id NodeID) (*Function, bool) {
	p, ok := t.payload(id, KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression)
	if !ok {
		return nil, false
	}
	return t.Functions.Get(uint32(p)), true
}

func (t *Tree) NewVarDecl(span source.Span, kind string, decls []NodeID, declare bool) NodeID {
	payload := PayloadID(t.VarDecls.Allocate(VarDecl{Kind: kind, Declarations: decls, Declare: declare}))
	return t.newNode(KindVariableDeclaration, span, payload, decls...)
}

func (t *Tree) VarDecl(id NodeID) (*VarDecl, bool) {
	p, ok := t.payload(id, KindVariableDeclaration)
	if !ok {
		return nil, false
	}
	return t.VarDecls.Get(uint32(p)), true
}

func (t *Tree) NewDeclarator(span source.Span, name, init NodeID) NodeID {
	payload := PayloadID(t.Declarators.Allocate(Declarator{ID: name, Init: init}))
	return t.newNode(KindVariableDeclarator, span, payload, ids(name, init)...)
}

func (t *Tree) Declarator(id NodeID) (*Declarator, bool) {
	p, ok := t.payload(id, KindVariableDeclarator)
	if !ok {
		return nil, false
	}
	return t.Declarators.Get(uint32(p)), true
}

func (t *Tree) NewInterface(span source.Span, name NodeID, extends []NodeID, body NodeID) NodeID {
	payload := PayloadID(t.Interfaces.Allocate(Interface{ID: name, Extends: extends, Body: body}))
	return t.newNode(KindTSInterfaceDeclaration, span, payload, concat(ids(name), extends, ids(body))...)
}

func (t *Tree) Interface(id NodeID) (*Interface, bool) {
	p, ok := t.payload(id, KindTSInterfaceDeclaration)
	if !ok {
		return nil, false
	}
	return t.Interfaces.Get(uint32(p)), true
}

func (t *Tree) NewTypeAlias(span source.Span, name, typ NodeID) NodeID {
	payload := PayloadID(t.TypeAliases.Allocate(TypeAlias{ID: name, TypeAnnotation: typ}))
	return t.newNode(KindTSTypeAliasDeclaration, span, payload, ids(name, typ)...)
}

func (t *Tree) TypeAlias(id NodeID) (*TypeAlias, bool) {
	p, ok := t.payload(id, KindTSTypeAliasDeclaration)
	if !ok {
		return nil, false
	}
	return t.TypeAliases.Get(uint32(p)), true
}
