package ast

import "airtight/internal/source"

type TypeRef struct {
	TypeName      NodeID // Identifier or TSQualifiedName
	TypeArguments []NodeID
}

type PropertySignature struct {
	Key            NodeID
	TypeAnnotation NodeID
	Computed       bool
	Optional       bool
	Readonly       bool
}

// Keyword backs every TS*Keyword type; Name is the keyword text
// (string, number, any, ...).
type Keyword struct {
	Name string
}

func (t *Tree) NewTypeRef(span source.Span, name NodeID, args []NodeID) NodeID {
	payload := PayloadID(t.TypeRefs.Allocate(TypeRef{TypeName: name, TypeArguments: args}))
	return t.newNode(KindTSTypeReference, span, payload, concat(ids(name), args)...)
}

func (t *Tree) TypeRef(id NodeID) (*TypeRef, bool) {
	p, ok := t.payload(id, KindTSTypeReference)
	if !ok {
		return nil, false
	}
	return t.TypeRefs.Get(uint32(p)), true
}

func (t *Tree) NewPropertySignature(span source.Span, sig PropertySignature) NodeID {
	payload := PayloadID(t.PropSigs.Allocate(sig))
	return t.newNode(KindTSPropertySignature, span, payload, ids(sig.Key, sig.TypeAnnotation)...)
}

func (t *Tree) PropertySignature(id NodeID) (*PropertySignature, bool) {
	p, ok := t.payload(id, KindTSPropertySignature)
	if !ok {
		return nil, false
	}
	return t.PropSigs.Get(uint32(p)), true
}

func (t *Tree) NewKeyword(span source.Span, name string) NodeID {
	payload := PayloadID(t.Keywords.Allocate(Keyword{Name: name}))
	return t.newNode(KindTSKeyword, span, payload)
}

func (t *Tree) Keyword(id NodeID) (*Keyword, bool) {
	p, ok := t.payload(id, KindTSKeyword)
	if !ok {
		return nil, false
	}
	return t.Keywords.Get(uint32(p)), true
}
