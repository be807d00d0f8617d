package linter

import (
	"context"
	"fmt"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/rule"
	"airtight/internal/source"
	"airtight/internal/trace"
)

// Entry is one enabled rule with its effective severity and options.
type Entry struct {
	Rule     rule.Rule
	Severity diag.Severity
	Options  rule.Options
}

// Linter dispatches the handlers of all entries over a tree.
type Linter struct {
	entries []Entry
	cwd     string
}

// New creates a Linter. cwd is what rules see as the working directory.
func New(cwd string, entries ...Entry) *Linter {
	return &Linter{entries: entries, cwd: cwd}
}

// Entries returns the configured entries.
func (l *Linter) Entries() []Entry {
	return l.entries
}

// Lint runs every entry over tree and returns the sorted diagnostics.
// A rule whose Create fails is reported as configError and skipped for
// this file; the remaining rules still run.
func (l *Linter) Lint(ctx context.Context, fs *source.FileSet, tree *ast.Tree) ([]diag.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("lint: nil tree")
	}
	file := fs.Get(tree.File)
	if file == nil {
		return nil, fmt.Errorf("lint: unknown file %d", tree.File)
	}

	ctx, span := trace.Start(ctx, trace.ScopeFile, "lint:"+file.Path)
	bag := diag.NewBag(0)
	// без дедупликации: одинаковый отчёт на узел может прийти по разу на параметр
	reporter := diag.BagReporter{Bag: bag}

	visitors := make([]rule.Visitor, 0, len(l.entries))
	for _, e := range l.entries {
		meta := e.Rule.Meta()
		_, rs := trace.Start(ctx, trace.ScopeRule, "create:"+meta.Name)
		rctx := rule.NewContext(meta, tree, file, l.cwd, e.Options, e.Severity, reporter)
		v, err := e.Rule.Create(rctx)
		rs.End("")
		if err != nil {
			sp := tree.Span(tree.Root)
			reporter.Report(diag.NewError(meta.Name, "configError", sp.StartPoint(),
				fmt.Sprintf("invalid configuration for %s: %v", meta.Name, err)))
			continue
		}
		if !v.Empty() {
			visitors = append(visitors, v)
		}
	}

	dispatch(tree, visitors)

	bag.Sort()
	span.WithExtra("diagnostics", fmt.Sprint(bag.Len())).End("")
	return bag.Items(), nil
}

func dispatch(tree *ast.Tree, visitors []rule.Visitor) {
	if len(visitors) == 0 {
		return
	}
	tree.Walk(tree.Root, func(id ast.NodeID, enter bool) bool {
		kind := tree.Kind(id)
		for _, v := range visitors {
			handlers := v.Leave
			if enter {
				handlers = v.Enter
			}
			if h, ok := handlers[kind]; ok {
				h(id)
			}
		}
		return true
	})
}
