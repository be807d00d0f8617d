package ast

import (
	"airtight/internal/source"
)

// Node is one syntax node. Children live in the kind-specific payload;
// Parent is an index used for upward navigation only.
type Node struct {
	Kind    Kind
	Span    source.Span
	Parent  NodeID
	Payload PayloadID
}

// Tree is the arena-backed syntax tree of one file. It is built once by a
// decoder and is read-only afterwards.
type Tree struct {
	File    source.FileID
	Root    NodeID
	Nodes   *Arena[Node]
	Names   *Names

	Programs      *Arena[Program]
	Lists         *Arena[List]
	Wraps         *Arena[Wrap]
	Pairs         *Arena[Pair]
	Imports       *Arena[ImportDecl]
	ImportSpecs   *Arena[ImportSpec]
	ImportEquals  *Arena[ImportEquals]
	ExportNameds  *Arena[ExportNamed]
	ExportSpecs   *Arena[ExportSpec]
	Classes       *Arena[Class]
	PropertyDefs  *Arena[PropertyDef]
	MethodDefs    *Arena[MethodDef]
	Functions     *Arena[Function]
	VarDecls      *Arena[VarDecl]
	Declarators   *Arena[Declarator]
	Interfaces    *Arena[Interface]
	TypeAliases   *Arena[TypeAlias]
	Ifs           *Arena[IfStmt]
	Tries         *Arena[TryStmt]
	Catches       *Arena[CatchClause]
	Idents        *Arena[Ident]
	Literals      *Arena[Literal]
	Properties    *Arena[Property]
	Calls         *Arena[Call]
	Members       *Arena[Member]
	TypeRefs      *Arena[TypeRef]
	PropSigs      *Arena[PropertySignature]
	Keywords      *Arena[Keyword]
	Others        *Arena[Other]
}

// Hints sizes the arenas of a new tree.
type Hints struct {
	Nodes uint
}

// NewTree allocates an empty tree for file.
func NewTree(file source.FileID, hints Hints) *Tree {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	small := hints.Nodes / 8
	return &Tree{
		File:         file,
		Nodes:        NewArena[Node](hints.Nodes),
		Names:        NewNames(),
		Programs:     NewArena[Program](1),
		Lists:        NewArena[List](small),
		Wraps:        NewArena[Wrap](small),
		Pairs:        NewArena[Pair](small),
		Imports:      NewArena[ImportDecl](small),
		ImportSpecs:  NewArena[ImportSpec](small),
		ImportEquals: NewArena[ImportEquals](0),
		ExportNameds: NewArena[ExportNamed](0),
		ExportSpecs:  NewArena[ExportSpec](0),
		Classes:      NewArena[Class](0),
		PropertyDefs: NewArena[PropertyDef](0),
		MethodDefs:   NewArena[MethodDef](0),
		Functions:    NewArena[Function](small),
		VarDecls:     NewArena[VarDecl](small),
		Declarators:  NewArena[Declarator](small),
		Interfaces:   NewArena[Interface](0),
		TypeAliases:  NewArena[TypeAlias](0),
		Ifs:          NewArena[IfStmt](0),
		Tries:        NewArena[TryStmt](0),
		Catches:      NewArena[CatchClause](0),
		Idents:       NewArena[Ident](hints.Nodes / 4),
		Literals:     NewArena[Literal](small),
		Properties:   NewArena[Property](small),
		Calls:        NewArena[Call](small),
		Members:      NewArena[Member](small),
		TypeRefs:     NewArena[TypeRef](0),
		PropSigs:     NewArena[PropertySignature](0),
		Keywords:     NewArena[Keyword](0),
		Others:       NewArena[Other](small),
	}
}

// Node returns the node with the given id or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Node(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return t.Nodes.Len()
}

func (t *Tree) newNode(kind Kind, span source.Span, payload PayloadID, children ...NodeID) NodeID {
	id := NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: payload}))
	t.adopt(id, children...)
	return id
}

func (t *Tree) adopt(parent NodeID, children ...NodeID) {
	for _, c := range children {
		if n := t.Node(c); n != nil {
			n.Parent = parent
		}
	}
}

func (t *Tree) payload(id NodeID, kinds ...Kind) (PayloadID, bool) {
	n := t.Node(id)
	if n == nil {
		return NoPayloadID, false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return n.Payload, true
		}
	}
	return NoPayloadID, false
}

func concat(head []NodeID, rest ...[]NodeID) []NodeID {
	out := append([]NodeID(nil), head...)
	for _, r := range rest {
		out = append(out, r...)
	}
	return out
}

func ids(list ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(list))
	for _, id := range list {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}
