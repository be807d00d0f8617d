package rule

import (
	"path/filepath"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/source"
)

// Context is what a rule sees of the file being analysed.
type Context struct {
	Tree     *ast.Tree
	File     *source.File
	Filename string
	Cwd      string
	Options  Options
	Severity diag.Severity

	meta     Meta
	reporter diag.Reporter
}

// NewContext binds a rule's meta and a reporter to one file.
func NewContext(meta Meta, tree *ast.Tree, file *source.File, cwd string, opts Options, sev diag.Severity, r diag.Reporter) *Context {
	filename := ""
	if file != nil {
		filename = file.Path
	}
	return &Context{
		Tree:     tree,
		File:     file,
		Filename: filename,
		Cwd:      cwd,
		Options:  opts,
		Severity: sev,
		meta:     meta,
		reporter: r,
	}
}

// Rule returns the name of the rule owning this context.
func (c *Context) Rule() string {
	return c.meta.Name
}

// Dir is the directory of the analysed file.
func (c *Context) Dir() string {
	return filepath.Dir(c.Filename)
}

// Text returns the source text of a node.
func (c *Context) Text(id ast.NodeID) string {
	if c.File == nil {
		return ""
	}
	return c.File.Text(c.Tree.Span(id))
}

// Report describes one violation. Span overrides the node span when set.
type Report struct {
	Node      ast.NodeID
	Span      *source.Span
	MessageID string
	Data      map[string]string
	Fix       *diag.Fix
}

// Report emits a diagnostic. The message is the rule's template for
// MessageID with Data interpolated; unknown ids are reported verbatim.
func (c *Context) Report(r Report) {
	if c.reporter == nil {
		return
	}
	span := c.Tree.Span(r.Node)
	if r.Span != nil {
		span = *r.Span
	}
	template, ok := c.meta.Messages[r.MessageID]
	if !ok {
		template = r.MessageID
	}
	d := diag.New(c.Severity, c.meta.Name, r.MessageID, span, diag.Interpolate(template, r.Data))
	if len(r.Data) > 0 {
		d = d.WithData(r.Data)
	}
	if r.Fix != nil {
		d = d.WithFixSuggestion(r.Fix)
	}
	c.reporter.Report(d)
}
