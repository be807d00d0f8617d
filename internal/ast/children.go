package ast

// Children returns the direct children of id in source order. Nodes shared
// by two payload fields (shorthand properties, `import { a }`) appear once.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	switch n.Kind {
	case KindProgram:
		out = t.Programs.Get(uint32(n.Payload)).Body
	case KindImportDeclaration:
		d := t.Imports.Get(uint32(n.Payload))
		out = concat(d.Specifiers, ids(d.Source))
	case KindImportSpecifier, KindImportDefaultSpecifier, KindImportNamespaceSpecifier:
		s := t.ImportSpecs.Get(uint32(n.Payload))
		out = ids(s.Imported, s.Local)
	case KindTSImportEqualsDeclaration:
		d := t.ImportEquals.Get(uint32(n.Payload))
		out = ids(d.ID, d.ModuleReference)
	case KindExportNamedDeclaration:
		d := t.ExportNameds.Get(uint32(n.Payload))
		out = concat(ids(d.Declaration), d.Specifiers, ids(d.Source))
	case KindExportSpecifier:
		s := t.ExportSpecs.Get(uint32(n.Payload))
		out = ids(s.Local, s.Exported)
	case KindClassDeclaration, KindClassExpression:
		c := t.Classes.Get(uint32(n.Payload))
		out = concat(ids(c.ID, c.SuperClass), c.Implements, ids(c.Body))
	case KindPropertyDefinition:
		d := t.PropertyDefs.Get(uint32(n.Payload))
		out = ids(d.Key, d.TypeAnnotation, d.Value)
	case KindMethodDefinition:
		d := t.MethodDefs.Get(uint32(n.Payload))
		out = ids(d.Key, d.Value)
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression:
		fn := t.Functions.Get(uint32(n.Payload))
		out = concat(ids(fn.ID), fn.Params, ids(fn.ReturnType, fn.Body))
	case KindVariableDeclaration:
		out = t.VarDecls.Get(uint32(n.Payload)).Declarations
	case KindVariableDeclarator:
		d := t.Declarators.Get(uint32(n.Payload))
		out = ids(d.ID, d.Init)
	case KindTSInterfaceDeclaration:
		d := t.Interfaces.Get(uint32(n.Payload))
		out = concat(ids(d.ID), d.Extends, ids(d.Body))
	case KindTSTypeAliasDeclaration:
		d := t.TypeAliases.Get(uint32(n.Payload))
		out = ids(d.ID, d.TypeAnnotation)
	case KindIfStatement:
		s := t.Ifs.Get(uint32(n.Payload))
		out = ids(s.Test, s.Consequent, s.Alternate)
	case KindTryStatement:
		s := t.Tries.Get(uint32(n.Payload))
		out = ids(s.Block, s.Handler, s.Finalizer)
	case KindCatchClause:
		c := t.Catches.Get(uint32(n.Payload))
		out = ids(c.Param, c.Body)
	case KindIdentifier:
		out = ids(t.Idents.Get(uint32(n.Payload)).TypeAnnotation)
	case KindProperty:
		p := t.Properties.Get(uint32(n.Payload))
		out = ids(p.Key, p.Value)
	case KindCallExpression, KindNewExpression:
		c := t.Calls.Get(uint32(n.Payload))
		out = concat(ids(c.Callee), c.Arguments)
	case KindMemberExpression:
		m := t.Members.Get(uint32(n.Payload))
		out = ids(m.Object, m.Property)
	case KindTSTypeReference:
		r := t.TypeRefs.Get(uint32(n.Payload))
		out = concat(ids(r.TypeName), r.TypeArguments)
	case KindTSPropertySignature:
		s := t.PropSigs.Get(uint32(n.Payload))
		out = ids(s.Key, s.TypeAnnotation)
	case KindAssignmentPattern, KindTSQualifiedName:
		p := t.Pairs.Get(uint32(n.Payload))
		out = ids(p.Left, p.Right)
	case KindOther:
		out = t.Others.Get(uint32(n.Payload)).Children
	case KindLiteral, KindTSKeyword:
		return nil
	default:
		if items := t.Items(id); items != nil {
			out = items
		} else if target := t.Target(id); target.IsValid() {
			out = []NodeID{target}
		}
	}
	return compact(out)
}

// compact drops holes and adjacent duplicates without touching the payload.
func compact(list []NodeID) []NodeID {
	out := make([]NodeID, 0, len(list))
	for _, id := range list {
		if !id.IsValid() {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
