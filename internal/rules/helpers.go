package rules

import (
	"path/filepath"
	"strings"

	"airtight/internal/ast"
	"airtight/internal/rule"
)

// absFilename resolves the analysed filename against the working directory.
func absFilename(ctx *rule.Context) string {
	name := ctx.Filename
	if filepath.IsAbs(name) || ctx.Cwd == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(ctx.Cwd, name)
}

func absDir(ctx *rule.Context) string {
	return filepath.Dir(absFilename(ctx))
}

// lastSegments keeps the last n slash-separated segments of path.
func lastSegments(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	return strings.Join(parts, "/")
}

// memberProperty returns the property name of a non-computed member
// expression `obj.name`.
func memberProperty(t *ast.Tree, id ast.NodeID) (string, bool) {
	m, ok := t.Member(id)
	if !ok || m.Computed || t.Kind(m.Property) != ast.KindIdentifier {
		return "", false
	}
	return t.Name(m.Property), true
}

// hasIdentKey reports whether an object literal has a property whose key
// is the identifier name.
func hasIdentKey(t *ast.Tree, object ast.NodeID, name string) bool {
	for _, item := range t.Items(object) {
		prop, ok := t.Property(item)
		if ok && t.IsIdent(prop.Key, name) {
			return true
		}
	}
	return false
}
