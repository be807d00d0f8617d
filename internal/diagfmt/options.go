package diagfmt

import "airtight/internal/source"

// PathMode selects how paths are printed. The zero value behaves as auto.
type PathMode = source.PathStyle

const (
	PathModeAuto     = source.PathAuto
	PathModeAbsolute = source.PathAbsolute
	PathModeRelative = source.PathRelative
	PathModeBasename = source.PathBasename
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		if s == string(m) {
			return m, true
		}
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRule describes one rule in the SARIF tool component.
type SarifRule struct {
	ID          string
	Description string
	HelpURI     string
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	Rules          []SarifRule
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if mode == "" {
		mode = PathModeAuto
	}
	return f.DisplayPath(mode, fs.BaseDir())
}
