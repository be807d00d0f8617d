package source

import (
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// AddBOM returns content with a UTF-8 BOM in front.
func AddBOM(content []byte) []byte {
	return append(append(make([]byte, 0, len(content)+len(utf8BOM)), utf8BOM...), content...)
}

// PathStyle selects how DisplayPath renders a file path.
type PathStyle string

const (
	PathAbsolute PathStyle = "absolute"
	PathRelative PathStyle = "relative"
	PathBasename PathStyle = "basename"
	// PathAuto keeps short or relative paths and shortens long absolute ones.
	PathAuto PathStyle = "auto"
)

// DisplayPath renders the file path in style. base only matters for
// PathRelative; empty means the working directory.
func (f *File) DisplayPath(style PathStyle, base string) string {
	switch style {
	case PathAbsolute:
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if base == "" {
			base, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, base); err == nil {
			return rel
		}
	case PathBasename:
		return BaseName(f.Path)
	case PathAuto:
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the absolute slash-separated form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to base. A path outside base comes
// back absolute.
func RelativePath(path, base string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(absBase), filepath.FromSlash(abs))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
