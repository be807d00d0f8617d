// Package estree decodes the JSON form of a typescript-estree Program (as
// printed by the host with `range: true, comment: true`) into an ast.Tree.
//
// Ranges are UTF-16 code unit offsets into the BOM-less source; they are
// converted to byte offsets of the file the tree belongs to. Type
// annotation wrappers (TSTypeAnnotation) are unwrapped so annotations point
// at the type itself. Node types outside the closed kind set decode as
// KindOther with their node-valued fields as children.
package estree
