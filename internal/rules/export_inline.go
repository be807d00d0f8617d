package rules

import (
	"fortio.org/safecast"

	"airtight/internal/ast"
	"airtight/internal/fix"
	"airtight/internal/rule"
	"airtight/internal/source"
)

// ExportInline moves functions listed in a local `export { ... }` onto the
// declaration itself and drops empty export lists that a module does not
// need.
type ExportInline struct{}

func init() {
	Register(ExportInline{})
}

func (ExportInline) Meta() rule.Meta {
	return rule.Meta{
		Name:        "export-inline",
		Description: "Export functions at their declaration",
		Type:        rule.TypeSuggestion,
		Recommended: true,
		Fixable:     true,
		Messages: map[string]string{
			"mustBeInline":           "Export the function where it is declared",
			"unnecessaryEmptyExport": "Empty export list is unnecessary in a module",
		},
	}
}

func (ExportInline) Create(ctx *rule.Context) (rule.Visitor, error) {
	t := ctx.Tree
	return rule.Visitor{}.On(ast.KindProgram, func(id ast.NodeID) {
		prog, _ := t.Program(id)
		functions := make(map[string]ast.NodeID)
		moduleMarkers := 0
		for _, stmt := range prog.Body {
			switch t.Kind(stmt) {
			case ast.KindFunctionDeclaration:
				fn, _ := t.Function(stmt)
				if name := t.Name(fn.ID); name != "" {
					if _, dup := functions[name]; !dup {
						functions[name] = stmt
					}
				}
			case ast.KindImportDeclaration, ast.KindTSImportEqualsDeclaration,
				ast.KindExportNamedDeclaration, ast.KindExportDefaultDeclaration:
				moduleMarkers++
			case ast.KindOther:
				if isExportAll(t, stmt) {
					moduleMarkers++
				}
			}
		}

		for _, stmt := range prog.Body {
			export, ok := t.ExportNamed(stmt)
			if !ok || export.Declaration.IsValid() || export.Source.IsValid() {
				continue
			}
			if len(export.Specifiers) == 0 {
				// the empty list is what makes the file a module otherwise
				if moduleMarkers > 1 {
					report := rule.Report{Node: stmt, MessageID: "unnecessaryEmptyExport"}
					if f, err := fix.Compose("remove empty export", fix.DeleteSpan(t.Span(stmt))); err == nil {
						report.Fix = f
					}
					ctx.Report(report)
				}
				continue
			}
			for _, s := range export.Specifiers {
				spec, _ := t.ExportSpec(s)
				if t.Name(spec.Local) != t.Name(spec.Exported) {
					continue
				}
				fnDecl, ok := functions[t.Name(spec.Local)]
				if !ok {
					continue
				}
				report := rule.Report{Node: s, MessageID: "mustBeInline"}
				removal := specifierWithComma(ctx, s)
				if f, err := fix.Compose("export inline",
					fix.DeleteSpan(removal),
					fix.InsertBefore(t.Span(fnDecl), "export ")); err == nil {
					report.Fix = f
				}
				ctx.Report(report)
			}
		}
	}), nil
}

func isExportAll(t *ast.Tree, id ast.NodeID) bool {
	other, ok := t.Other(id)
	return ok && other.Type == "ExportAllDeclaration"
}

// specifierWithComma extends a specifier span over a following comma.
func specifierWithComma(ctx *rule.Context, spec ast.NodeID) source.Span {
	span := ctx.Tree.Span(spec)
	if ctx.File == nil {
		return span
	}
	content := ctx.File.Content
	for i := int(span.End); i < len(content); i++ {
		switch content[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ',':
			if end, err := safecast.Conv[uint32](i + 1); err == nil {
				span.End = end
			}
		}
		break
	}
	return span
}
