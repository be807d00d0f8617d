package ast

import "airtight/internal/source"

// Program is the root node.
type Program struct {
	Body     []NodeID
	Comments []source.Span
}

type ImportDecl struct {
	Specifiers []NodeID
	Source     NodeID // Literal
	TypeOnly   bool
}

// ImportSpec backs ImportSpecifier, ImportDefaultSpecifier and
// ImportNamespaceSpecifier. Imported is set for ImportSpecifier only and may
// equal Local for `import { a }`.
type ImportSpec struct {
	Imported NodeID
	Local    NodeID
	TypeOnly bool
}

// ImportEquals is `import <ID> = <ModuleReference>`.
type ImportEquals struct {
	ID              NodeID
	ModuleReference NodeID
	TypeOnly        bool
	Exported        bool
}

type ExportNamed struct {
	Declaration NodeID
	Specifiers  []NodeID
	Source      NodeID
	TypeOnly    bool
}

// ExportSpec may have Local == Exported for `export { a }`.
type ExportSpec struct {
	Local    NodeID
	Exported NodeID
}

func (t *Tree) NewProgram(span source.Span, body []NodeID, comments []source.Span) NodeID {
	payload := PayloadID(t.Programs.Allocate(Program{Body: body, Comments: comments}))
	id := t.newNode(KindProgram, span, payload, body...)
	t.Root = id
	return id
}

func (t *Tree) Program(id NodeID) (*Program, bool) {
	p, ok := t.payload(id, KindProgram)
	if !ok {
		return nil, false
	}
	return t.Programs.Get(uint32(p)), true
}

func (t *Tree) NewImportDecl(span source.Span, specifiers []NodeID, src NodeID, typeOnly bool) NodeID {
	payload := PayloadID(t.Imports.Allocate(ImportDecl{Specifiers: specifiers, Source: src, TypeOnly: typeOnly}))
	return t.newNode(KindImportDeclaration, span, payload, concat(specifiers, ids(src))...)
}

func (t *Tree) Import(id NodeID) (*ImportDecl, bool) {
	p, ok := t.payload(id, KindImportDeclaration)
	if !ok {
		return nil, false
	}
	return t.Imports.Get(uint32(p)), true
}

// NewImportSpec creates one of the three import specifier kinds.
func (t *Tree) NewImportSpec(kind Kind, span source.Span, imported, local NodeID, typeOnly bool) NodeID {
	payload := PayloadID(t.ImportSpecs.Allocate(ImportSpec{Imported: imported, Local: local, TypeOnly: typeOnly}))
	return t.newNode(kind, span, payload, ids(imported, local)...)
}

func (t *Tree) ImportSpec(id NodeID) (*ImportSpec, bool) {
	p, ok := t.payload(id, KindImportSpecifier, KindImportDefaultSpecifier, KindImportNamespaceSpecifier)
	if !ok {
		return nil, false
	}
	return t.ImportSpecs.Get(uint32(p)), true
}

func (t *Tree) NewImportEquals(span source.Span, name, moduleRef NodeID, typeOnly, exported bool) NodeID {
	payload := PayloadID(t.ImportEquals.Allocate(ImportEquals{ID: name, ModuleReference: moduleRef, TypeOnly: typeOnly, Exported: exported}))
	return t.newNode(KindTSImportEqualsDeclaration, span, payload, ids(name, moduleRef)...)
}

func (t *Tree) ImportEqualsDecl(id NodeID) (*ImportEquals, bool) {
	p, ok := t.payload(id, KindTSImportEqualsDeclaration)
	if !ok {
		return nil, false
	}
	return t.ImportEquals.Get(uint32(p)), true
}

func (t *Tree) NewExportNamed(span source.Span, decl NodeID, specifiers []NodeID, src NodeID, typeOnly bool) NodeID {
	payload := PayloadID(t.ExportNameds.Allocate(ExportNamed{Declaration: decl, Specifiers: specifiers, Source: src, TypeOnly: typeOnly}))
	return t.newNode(KindExportNamedDeclaration, span, payload, concat(ids(decl), specifiers, ids(src))...)
}

func (t *Tree) ExportNamed(id NodeID) (*ExportNamed, bool) {
	p, ok := t.payload(id, KindExportNamedDeclaration)
	if !ok {
		return nil, false
	}
	return t.ExportNameds.Get(uint32(p)), true
}

func (t *Tree) NewExportSpec(span source.Span, local, exported NodeID) NodeID {
	payload := PayloadID(t.ExportSpecs.Allocate(ExportSpec{Local: local, Exported: exported}))
	return t.newNode(KindExportSpecifier, span, payload, ids(local, exported)...)
}

func (t *Tree) ExportSpec(id NodeID) (*ExportSpec, bool) {
	p, ok := t.payload(id, KindExportSpecifier)
	if !ok {
		return nil, false
	}
	return t.ExportSpecs.Get(uint32(p)), true
}
