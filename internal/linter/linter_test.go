package linter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/fix"
	"airtight/internal/linter"
	"airtight/internal/rule"
	"airtight/internal/rules"
	"airtight/internal/source"
	"airtight/internal/testkit"
)

// funcRule adapts a closure to rule.Rule.
type funcRule struct {
	name   string
	create func(ctx *rule.Context) (rule.Visitor, error)
}

func (r funcRule) Meta() rule.Meta {
	return rule.Meta{Name: r.name, Type: rule.TypeProblem, Messages: map[string]string{"hit": "hit {{ what }}"}}
}

func (r funcRule) Create(ctx *rule.Context) (rule.Visitor, error) {
	return r.create(ctx)
}

func entry(r rule.Rule, options string) linter.Entry {
	return linter.Entry{Rule: r, Severity: diag.SevWarning, Options: rule.MustParseOptions(options)}
}

func recorder(name string, log *[]string) funcRule {
	return funcRule{name: name, create: func(ctx *rule.Context) (rule.Visitor, error) {
		return rule.Visitor{}.
			On(ast.KindProgram, func(ast.NodeID) { *log = append(*log, name+" enter Program") }).
			OnExit(ast.KindProgram, func(ast.NodeID) { *log = append(*log, name+" leave Program") }).
			On(ast.KindCallExpression, func(id ast.NodeID) { *log = append(*log, name+" enter "+ctx.Text(id)) }), nil
	}}
}

func lint(t *testing.T, l *linter.Linter, code string) (*source.FileSet, source.FileID, []diag.Diagnostic) {
	t.Helper()
	fs, tree := testkit.ParseString(t, testkit.DefaultFilename, code)
	diags, err := l.Lint(context.Background(), fs, tree)
	require.NoError(t, err)
	return fs, tree.File, diags
}

func TestLintDispatchesInEntryOrder(t *testing.T) {
	var log []string
	l := linter.New(testkit.DefaultCwd, entry(recorder("a", &log), ""), entry(recorder("b", &log), ""))
	_, _, diags := lint(t, l, "f(g());")
	assert.Empty(t, diags)
	assert.Equal(t, []string{
		"a enter Program",
		"b enter Program",
		"a enter f(g())",
		"b enter f(g())",
		"a enter g()",
		"b enter g()",
		"a leave Program",
		"b leave Program",
	}, log)
}

func TestLintKeepsIdenticalReports(t *testing.T) {
	twice := funcRule{name: "twice", create: func(ctx *rule.Context) (rule.Visitor, error) {
		return rule.Visitor{}.On(ast.KindFunctionDeclaration, func(id ast.NodeID) {
			ctx.Report(rule.Report{Node: id, MessageID: "hit"})
			ctx.Report(rule.Report{Node: id, MessageID: "hit"})
		}), nil
	}}
	_, _, diags := lint(t, linter.New(testkit.DefaultCwd, entry(twice, "")), "function test(foo, bar) {}")
	require.Len(t, diags, 2)
	assert.Equal(t, diags[0].Primary, diags[1].Primary)
}

func TestLintParamTypesReportsEveryParameter(t *testing.T) {
	l := linter.New(testkit.DefaultCwd, entry(rules.ParamTypes{}, `
[fixes]
"foo.*" = ["./types", "Foo"]
`))
	fs, id, diags := lint(t, l, "function test(foo, fooBar) {}")
	require.Len(t, diags, 2)

	out, applied, err := linter.ApplyFixes(fs, id, diags)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Contains(t, string(out), "function test(foo: Foo, fooBar: Foo) {}")
}

func TestLintReportsConfigErrorAndKeepsGoing(t *testing.T) {
	l := linter.New(testkit.DefaultCwd,
		entry(rules.ParamTypes{}, `required = ["[a-"]`),
		entry(rules.UnboundedConcurrency{}, ""),
	)
	_, _, diags := lint(t, l, "async function run(xs) {\n  await Promise.all(xs.map(f));\n}")
	require.Len(t, diags, 2)

	assert.Equal(t, "param-types/configError", diags[0].Code())
	assert.Equal(t, diag.SevError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "invalid configuration for param-types")

	assert.Equal(t, "unbounded-concurrency/unboundedConcurrency", diags[1].Code())
	assert.Equal(t, diag.SevWarning, diags[1].Severity)
}

func TestLintHonoursCancellation(t *testing.T) {
	fs, tree := testkit.ParseString(t, testkit.DefaultFilename, "x;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := linter.New(testkit.DefaultCwd).Lint(ctx, fs, tree)
	assert.ErrorIs(t, err, context.Canceled)
}

// replaceProgram reports the whole program twice with different
// replacements; only the first can apply in one pass.
var replaceProgram = funcRule{name: "replace", create: func(ctx *rule.Context) (rule.Visitor, error) {
	return rule.Visitor{}.On(ast.KindProgram, func(id ast.NodeID) {
		for _, text := range []string{"a;", "b;"} {
			f, err := fix.Compose("replace", fix.ReplaceSpan(ctx.Tree.Span(id), text))
			if err != nil {
				return
			}
			ctx.Report(rule.Report{Node: id, MessageID: "hit", Data: map[string]string{"what": text}, Fix: f})
		}
	}), nil
}}

func TestApplyFixesSkipsConflicts(t *testing.T) {
	fs, id, diags := lint(t, linter.New(testkit.DefaultCwd, entry(replaceProgram, "")), "x;")
	require.Len(t, diags, 2)
	assert.Equal(t, "hit a;", diags[0].Message)

	out, applied, err := linter.ApplyFixes(fs, id, diags)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, "a;", string(out))
}

// widenCall adds a second argument to single-argument calls by replacing
// the whole statement; bumpOne rewrites the literal 1 to 2. The two fixes
// overlap, so the literal is rewritten one pass later.
var (
	widenCall = funcRule{name: "widen", create: func(ctx *rule.Context) (rule.Visitor, error) {
		t := ctx.Tree
		return rule.Visitor{}.On(ast.KindExpressionStatement, func(id ast.NodeID) {
			call, ok := t.Call(t.Target(id))
			if !ok || len(call.Arguments) != 1 {
				return
			}
			text := ctx.Text(t.Target(id))
			f, _ := fix.Compose("widen", fix.ReplaceSpan(t.Span(id), text[:len(text)-1]+", 0);"))
			ctx.Report(rule.Report{Node: id, MessageID: "hit", Fix: f})
		}), nil
	}}
	bumpOne = funcRule{name: "bump", create: func(ctx *rule.Context) (rule.Visitor, error) {
		t := ctx.Tree
		return rule.Visitor{}.On(ast.KindLiteral, func(id ast.NodeID) {
			if lit, _ := t.Literal(id); lit == nil || lit.Raw != "1" {
				return
			}
			f, _ := fix.Compose("bump", fix.ReplaceSpan(t.Span(id), "2"))
			ctx.Report(rule.Report{Node: id, MessageID: "hit", Fix: f})
		}), nil
	}}
)

func TestFixUntilStable(t *testing.T) {
	l := linter.New(testkit.DefaultCwd, entry(widenCall, ""), entry(bumpOne, ""))
	res, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, []byte("f(1);\n"), testkit.Parse)
	require.NoError(t, err)
	assert.Equal(t, "f(2, 0);\n", string(res.Output))
	assert.Equal(t, 2, res.Passes)
	assert.Equal(t, 2, res.Applied)
	assert.Empty(t, res.Diagnostics)
}

func TestFixUntilStableExportInline(t *testing.T) {
	l := linter.New(testkit.DefaultCwd, entry(rules.ExportInline{}, ""))
	code := "export { a, b };\nfunction a() {}\nfunction b() {}"
	res, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, []byte(code), testkit.Parse)
	require.NoError(t, err)
	// the emptied list goes in the second pass
	assert.Equal(t, "\nexport function a() {}\nexport function b() {}", string(res.Output))
	assert.Equal(t, 2, res.Passes)
	assert.Equal(t, 3, res.Applied)
	assert.Empty(t, res.Diagnostics)
}

func TestFixUntilStableGivesUp(t *testing.T) {
	prepend := funcRule{name: "prepend", create: func(ctx *rule.Context) (rule.Visitor, error) {
		return rule.Visitor{}.On(ast.KindProgram, func(id ast.NodeID) {
			f, _ := fix.Compose("prepend", fix.InsertBefore(ctx.Tree.Span(id), "x;"))
			ctx.Report(rule.Report{Node: id, MessageID: "hit", Fix: f})
		}), nil
	}}
	l := linter.New(testkit.DefaultCwd, entry(prepend, ""))
	res, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, []byte("y;"), testkit.Parse)
	require.ErrorIs(t, err, linter.ErrNotStable)
	assert.Equal(t, linter.MaxPasses, res.Passes)
}

func TestFixUntilStableParseError(t *testing.T) {
	l := linter.New(testkit.DefaultCwd)
	_, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, []byte("function ("), testkit.Parse)
	assert.ErrorContains(t, err, "parse "+testkit.DefaultFilename)
}
