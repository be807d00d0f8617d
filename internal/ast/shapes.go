package ast

import "airtight/internal/source"

// List is the payload of nodes that only hold an ordered child list:
// ClassBody, TSInterfaceBody, BlockStatement, ObjectExpression,
// ArrayExpression, ObjectPattern, ArrayPattern, TSTypeLiteral,
// TSIntersectionType and TSUnionType.
type List struct {
	Items []NodeID
}

// Wrap is the payload of nodes with a single optional child:
// TSExternalModuleReference, ExportDefaultDeclaration, TSClassImplements,
// ExpressionStatement, ReturnStatement, SpreadElement, AwaitExpression,
// RestElement, TSArrayType and TSLiteralType.
type Wrap struct {
	Target NodeID
}

// Pair backs AssignmentPattern (left = right) and TSQualifiedName (left.right).
type Pair struct {
	Left  NodeID
	Right NodeID
}

var listKinds = []Kind{
	KindClassBody, KindTSInterfaceBody, KindBlockStatement, KindObjectExpression,
	KindArrayExpression, KindObjectPattern, KindArrayPattern, KindTSTypeLiteral,
	KindTSIntersectionType, KindTSUnionType,
}

var wrapKinds = []Kind{
	KindTSExternalModuleReference, KindExportDefaultDeclaration, KindTSClassImplements,
	KindExpressionStatement, KindReturnStatement, KindSpreadElement, KindAwaitExpression,
	KindRestElement, KindTSArrayType, KindTSLiteralType,
}

var pairKinds = []Kind{KindAssignmentPattern, KindTSQualifiedName}

// NewList creates a list-shaped node. Holes (NoNodeID) are kept so that
// sparse array literals survive.
func (t *Tree) NewList(kind Kind, span source.Span, items []NodeID) NodeID {
	payload := PayloadID(t.Lists.Allocate(List{Items: items}))
	return t.newNode(kind, span, payload, items...)
}

// Items returns the children of a list-shaped node.
func (t *Tree) Items(id NodeID) []NodeID {
	p, ok := t.payload(id, listKinds...)
	if !ok {
		return nil
	}
	return t.Lists.Get(uint32(p)).Items
}

func (t *Tree) NewWrap(kind Kind, span source.Span, target NodeID) NodeID {
	payload := PayloadID(t.Wraps.Allocate(Wrap{Target: target}))
	return t.newNode(kind, span, payload, ids(target)...)
}

// Target returns the single child of a wrap-shaped node.
func (t *Tree) Target(id NodeID) NodeID {
	p, ok := t.payload(id, wrapKinds...)
	if !ok {
		return NoNodeID
	}
	return t.Wraps.Get(uint32(p)).Target
}

func (t *Tree) NewPair(kind Kind, span source.Span, left, right NodeID) NodeID {
	payload := PayloadID(t.Pairs.Allocate(Pair{Left: left, Right: right}))
	return t.newNode(kind, span, payload, ids(left, right)...)
}

func (t *Tree) Pair(id NodeID) (*Pair, bool) {
	p, ok := t.payload(id, pairKinds...)
	if !ok {
		return nil, false
	}
	return t.Pairs.Get(uint32(p)), true
}

// Other keeps nodes of types outside the closed set so traversal still
// reaches their children.
type Other struct {
	Type     string
	Children []NodeID
}

func (t *Tree) NewOther(span source.Span, typ string, children []NodeID) NodeID {
	payload := PayloadID(t.Others.Allocate(Other{Type: typ, Children: children}))
	return t.newNode(KindOther, span, payload, children...)
}

func (t *Tree) Other(id NodeID) (*Other, bool) {
	p, ok := t.payload(id, KindOther)
	if !ok {
		return nil, false
	}
	return t.Others.Get(uint32(p)), true
}
