package ast

import "airtight/internal/source"

// Ident backs Identifier. TypeAnnotation is set for annotated parameters
// and binding names (`foo: Foo`); the identifier span then covers it.
type Ident struct {
	Name           NameID
	TypeAnnotation NodeID
	Optional       bool
}

type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitRegExp
	LitBigInt
)

// Literal keeps both the cooked value (for strings) and the raw source
// text, so fixes can reuse the original quoting.
type Literal struct {
	Kind  LitKind
	Value string
	Raw   string
}

type Property struct {
	Key       NodeID
	Value     NodeID // equals Key for shorthand properties
	Kind      string // init, get, set
	Computed  bool
	Shorthand bool
	Method    bool
}

// Call backs CallExpression and NewExpression.
type Call struct {
	Callee    NodeID
	Arguments []NodeID
	Optional  bool
}

type Member struct {
	Object   NodeID
	Property NodeID
	Computed bool
	Optional bool
}

func (t *Tree) NewIdent(span source.Span, name string, typeAnn NodeID, optional bool) NodeID {
	payload := PayloadID(t.Idents.Allocate(Ident{Name: t.Names.Intern(name), TypeAnnotation: typeAnn, Optional: optional}))
	return t.newNode(KindIdentifier, span, payload, ids(typeAnn)...)
}

func (t *Tree) Ident(id NodeID) (*Ident, bool) {
	p, ok := t.payload(id, KindIdentifier)
	if !ok {
		return nil, false
	}
	return t.Idents.Get(uint32(p)), true
}

// Name returns the name of an Identifier node, or "" for any other node.
func (t *Tree) Name(id NodeID) string {
	ident, ok := t.Ident(id)
	if !ok {
		return ""
	}
	return t.Names.Get(ident.Name)
}

// IsIdent reports whether id is an Identifier called name.
func (t *Tree) IsIdent(id NodeID, name string) bool {
	return t.Kind(id) == KindIdentifier && t.Name(id) == name
}

func (t *Tree) NewLiteral(span source.Span, lit Literal) NodeID {
	payload := PayloadID(t.Literals.Allocate(lit))
	return t.newNode(KindLiteral, span, payload)
}

func (t *Tree) Literal(id NodeID) (*Literal, bool) {
	p, ok := t.payload(id, KindLiteral)
	if !ok {
		return nil, false
	}
	return t.Literals.Get(uint32(p)), true
}

// StringValue returns the value of a string Literal.
func (t *Tree) StringValue(id NodeID) (string, bool) {
	lit, ok := t.Literal(id)
	if !ok || lit.Kind != LitString {
		return "", false
	}
	return lit.Value, true
}

// KeyName returns the static name of a property key: an identifier name or
// the value of a string literal.
func (t *Tree) KeyName(id NodeID) (string, bool) {
	switch t.Kind(id) {
	case KindIdentifier:
		return t.Name(id), true
	case KindLiteral:
		return t.StringValue(id)
	default:
		return "", false
	}
}

func (t *Tree) NewProperty(span source.Span, prop Property) NodeID {
	payload := PayloadID(t.Properties.Allocate(prop))
	return t.newNode(KindProperty, span, payload, ids(prop.Key, prop.Value)...)
}

func (t *Tree) Property(id NodeID) (*Property, bool) {
	p, ok := t.payload(id, KindProperty)
	if !ok {
		return nil, false
	}
	return t.Properties.Get(uint32(p)), true
}

func (t *Tree) NewCall(kind Kind, span source.Span, callee NodeID, args []NodeID, optional bool) NodeID {
	payload := PayloadID(t.Calls.Allocate(Call{Callee: callee, Arguments: args, Optional: optional}))
	return t.newNode(kind, span, payload, concat(ids(callee), args)...)
}

func (t *Tree) Call(id NodeID) (*Call, bool) {
	p, ok := t.payload(id, KindCallExpression, KindNewExpression)
	if !ok {
		return nil, false
	}
	return t.Calls.Get(uint32(p)), true
}

func (t *Tree) NewMember(span source.Span, object, property NodeID, computed, optional bool) NodeID {
	payload := PayloadID(t.Members.Allocate(Member{Object: object, Property: property, Computed: computed, Optional: optional}))
	return t.newNode(KindMemberExpression, span, payload, ids(object, property)...)
}

func (t *Tree) Member(id NodeID) (*Member, bool) {
	p, ok := t.payload(id, KindMemberExpression)
	if !ok {
		return nil, false
	}
	return t.Members.Get(uint32(p)), true
}
