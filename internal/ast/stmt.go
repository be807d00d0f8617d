package ast

import "airtight/internal/source"

type IfStmt struct {
	Test       NodeID
	Consequent NodeID
	Alternate  NodeID
}

type TryStmt struct {
	Block     NodeID
	Handler   NodeID // CatchClause
	Finalizer NodeID
}

type CatchClause struct {
	Param NodeID
	Body  NodeID
}

func (t *Tree) NewIf(span source.Span, test, cons, alt NodeID) NodeID {
	payload := PayloadID(t.Ifs.Allocate(IfStmt{Test: test, Consequent: cons, Alternate: alt}))
	return t.newNode(KindIfStatement, span, payload, ids(test, cons, alt)...)
}

func (t *Tree) If(id NodeID) (*IfStmt, bool) {
	p, ok := t.payload(id, KindIfStatement)
	if !ok {
		return nil, false
	}
	return t.Ifs.Get(uint32(p)), true
}

func (t *Tree) NewTry(span source.Span, block, handler, finalizer NodeID) NodeID {
	payload := PayloadID(t.Tries.Allocate(TryStmt{Block: block, Handler: handler, Finalizer: finalizer}))
	return t.newNode(KindTryStatement, span, payload, ids(block, handler, finalizer)...)
}

func (t *Tree) Try(id NodeID) (*TryStmt, bool) {
	p, ok := t.payload(id, KindTryStatement)
	if !ok {
		return nil, false
	}
	return t.Tries.Get(uint32(p)), true
}

func (t *Tree) NewCatch(span source.Span, param, body NodeID) NodeID {
	payload := PayloadID(t.Catches.Allocate(CatchClause{Param: param, Body: body}))
	return t.newNode(KindCatchClause, span, payload, ids(param, body)...)
}

func (t *Tree) Catch(id NodeID) (*CatchClause, bool) {
	p, ok := t.payload(id, KindCatchClause)
	if !ok {
		return nil, false
	}
	return t.Catches.Get(uint32(p)), true
}
