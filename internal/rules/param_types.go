package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/fix"
	"airtight/internal/imports"
	"airtight/internal/rule"
)

// ParamTypes requires type annotations on function declaration parameters
// and can add them, together with a type-only import, from a
// name-pattern table.
type ParamTypes struct{}

func init() {
	Register(ParamTypes{})
}

func (ParamTypes) Meta() rule.Meta {
	return rule.Meta{
		Name:        "param-types",
		Description: "Require explicit parameter types on function declarations",
		Type:        rule.TypeProblem,
		Recommended: true,
		Fixable:     true,
		Messages: map[string]string{
			"mustBeTyped": "Explicitly specifying a type is required for this parameter.",
		},
	}
}

type paramFix struct {
	pattern    *regexp.Regexp
	importFrom string
	typeName   string
}

type paramTypesConfig struct {
	required []*regexp.Regexp
	excluded []*regexp.Regexp
	fixes    []paramFix
}

// anchored compiles a pattern that has to match the whole name.
func anchored(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	return re, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := anchored(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func anyMatch(res []*regexp.Regexp, name string) bool {
	for _, re := range res {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func (ParamTypes) config(ctx *rule.Context) (paramTypesConfig, error) {
	var cfg paramTypesConfig
	required := []string{".*"}
	if _, err := ctx.Options.Decode("required", &required); err != nil {
		return cfg, err
	}
	var excluded []string
	if _, err := ctx.Options.Decode("excluded", &excluded); err != nil {
		return cfg, err
	}
	var fixes map[string][]string
	if _, err := ctx.Options.Decode("fixes", &fixes); err != nil {
		return cfg, err
	}

	var err error
	if cfg.required, err = compileAll(required); err != nil {
		return cfg, err
	}
	if cfg.excluded, err = compileAll(excluded); err != nil {
		return cfg, err
	}

	patterns := make([]string, 0, len(fixes))
	for p := range fixes {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	dir := absDir(ctx)
	for _, p := range patterns {
		entry := fixes[p]
		if len(entry) != 2 {
			return cfg, fmt.Errorf("fixes[%q]: want [importPath, typeName], got %d values", p, len(entry))
		}
		re, err := anchored(p)
		if err != nil {
			return cfg, err
		}
		from := entry[0]
		if strings.HasPrefix(from, ".") {
			if from, err = imports.RelativeTo(dir, filepath.Join(ctx.Cwd, from)); err != nil {
				return cfg, fmt.Errorf("fixes[%q]: %w", p, err)
			}
		}
		cfg.fixes = append(cfg.fixes, paramFix{pattern: re, importFrom: from, typeName: entry[1]})
	}
	return cfg, nil
}

func (r ParamTypes) Create(ctx *rule.Context) (rule.Visitor, error) {
	cfg, err := r.config(ctx)
	if err != nil {
		return rule.Visitor{}, err
	}
	t := ctx.Tree
	// type names already imported in this file, plus those added by fixes
	imported := make(map[string]bool)

	seed := func(id ast.NodeID) {
		prog, _ := t.Program(id)
		for _, stmt := range prog.Body {
			decl, ok := t.Import(stmt)
			if !ok {
				continue
			}
			for _, s := range decl.Specifiers {
				if spec, ok := t.ImportSpec(s); ok && t.Kind(s) == ast.KindImportSpecifier {
					imported[t.Name(spec.Imported)] = true
				}
			}
		}
	}

	check := func(id ast.NodeID) {
		fn, _ := t.Function(id)
		for _, param := range fn.Params {
			ident, ok := t.Ident(param)
			if !ok || ident.TypeAnnotation.IsValid() {
				continue
			}
			name := t.Name(param)
			if !anyMatch(cfg.required, name) || anyMatch(cfg.excluded, name) {
				continue
			}
			report := rule.Report{Node: id, MessageID: "mustBeTyped"}
			for _, pf := range cfg.fixes {
				if !pf.pattern.MatchString(name) {
					continue
				}
				report.Fix = r.fix(t, param, pf, imported)
				break
			}
			ctx.Report(report)
		}
	}

	return rule.Visitor{}.
		On(ast.KindProgram, seed).
		On(ast.KindFunctionDeclaration, check), nil
}

func (ParamTypes) fix(t *ast.Tree, param ast.NodeID, pf paramFix, imported map[string]bool) *diag.Fix {
	edits := make([]diag.TextEdit, 0, 2)
	if !imported[pf.typeName] {
		text := "import type { " + pf.typeName + " } from '" + pf.importFrom + "';\n"
		edits = append(edits, fix.InsertBefore(t.Span(t.Root), text))
	}
	edits = append(edits, fix.InsertAfter(t.Span(param), ": "+pf.typeName))
	f, err := fix.Compose("add parameter type", edits...)
	if err != nil {
		return nil
	}
	imported[pf.typeName] = true
	return f
}
