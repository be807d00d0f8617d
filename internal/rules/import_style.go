package rules

import (
	"airtight/internal/ast"
	"airtight/internal/fix"
	"airtight/internal/imports"
	"airtight/internal/rule"
)

// ImportPair names a local binding and the module it comes from.
type ImportPair struct {
	Local string `toml:"local"`
	Path  string `toml:"path"`
}

// NamespaceMatcher decides whether a namespace import of target bound to
// local is offered the equals-style require fix. The import is reported
// either way. The rewrite policy for this direction is not settled; the
// default accepts everything.
type NamespaceMatcher func(target imports.Target, local string, patterns []ImportPair) bool

// AcceptAllNamespaces is the default NamespaceMatcher.
func AcceptAllNamespaces(imports.Target, string, []ImportPair) bool { return true }

// ImportStyle rewrites legacy `import x = require('m')` into named imports
// and, when configured, namespace imports into require-style imports.
type ImportStyle struct {
	Matcher NamespaceMatcher
}

func init() {
	Register(ImportStyle{Matcher: AcceptAllNamespaces})
}

func (ImportStyle) Meta() rule.Meta {
	return rule.Meta{
		Name:        "import-style",
		Description: "Prefer modern import forms for configured modules",
		Type:        rule.TypeProblem,
		Recommended: true,
		Fixable:     true,
		Messages: map[string]string{
			"useRegularImport": "Modern import style available",
		},
	}
}

type importStyleOptions struct {
	requireToNamed    []ImportPair
	hasRequireToNamed bool
	wildNsToRequire   []ImportPair
	hasWildNs         bool
}

func (ImportStyle) options(ctx *rule.Context) (importStyleOptions, error) {
	opts := importStyleOptions{requireToNamed: []ImportPair{}, hasRequireToNamed: true}
	var named []ImportPair
	ok, err := ctx.Options.Decode("requireToNamed", &named)
	if err != nil {
		return opts, err
	}
	if ok {
		opts.requireToNamed = named
	}
	var wild []ImportPair
	ok, err = ctx.Options.Decode("wildNsToRequire", &wild)
	if err != nil {
		return opts, err
	}
	if ok {
		opts.wildNsToRequire, opts.hasWildNs = wild, true
	}
	return opts, nil
}

func (r ImportStyle) Create(ctx *rule.Context) (rule.Visitor, error) {
	opts, err := r.options(ctx)
	if err != nil {
		return rule.Visitor{}, err
	}
	matcher := r.Matcher
	if matcher == nil {
		matcher = AcceptAllNamespaces
	}
	t := ctx.Tree
	dir := absDir(ctx)

	namespaceImport := func(id ast.NodeID) {
		if !opts.hasWildNs {
			return
		}
		decl, ok := t.Import(id)
		if !ok || len(decl.Specifiers) != 1 {
			return
		}
		ns := decl.Specifiers[0]
		if t.Kind(ns) != ast.KindImportNamespaceSpecifier {
			return
		}
		value, ok := t.StringValue(decl.Source)
		if !ok {
			return
		}
		spec, _ := t.ImportSpec(ns)
		if spec == nil || !spec.Local.IsValid() {
			return
		}
		local := t.Name(spec.Local)
		report := rule.Report{Node: id, MessageID: "useRegularImport"}
		// matcher решает только, предлагать ли fix
		target := imports.Classify(dir, value)
		if matcher(target, local, opts.wildNsToRequire) {
			lit, _ := t.Literal(decl.Source)
			f, err := fix.Compose("use require import",
				fix.ReplaceSpan(t.Span(id), "import "+local+" = require("+lit.Raw+");"))
			if err == nil {
				report.Fix = f
			}
		}
		ctx.Report(report)
	}

	equalsImport := func(id ast.NodeID) {
		if !opts.hasRequireToNamed {
			return
		}
		decl, ok := t.ImportEqualsDecl(id)
		if !ok || t.Kind(decl.ModuleReference) != ast.KindTSExternalModuleReference {
			return
		}
		expr := t.Target(decl.ModuleReference)
		lit, ok := t.Literal(expr)
		if !ok {
			return
		}
		local := t.Name(decl.ID)
		report := rule.Report{Node: id, MessageID: "useRegularImport"}
		// first match wins; duplicates further down are never consulted
		for _, p := range opts.requireToNamed {
			if p.Local == local && p.Path == lit.Value {
				f, err := fix.Compose("use named import",
					fix.ReplaceSpan(t.Span(id), "import { "+local+" } from "+lit.Raw+";"))
				if err == nil {
					report.Fix = f
				}
				break
			}
		}
		ctx.Report(report)
	}

	return rule.Visitor{}.
		On(ast.KindImportDeclaration, namespaceImport).
		On(ast.KindTSImportEqualsDeclaration, equalsImport), nil
}
