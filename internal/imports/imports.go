// Package imports classifies module specifiers the way the host runtime
// resolves them: builtin modules, paths relative to the importing file, and
// packages. Classification is pure string work and never touches the disk.
package imports

import (
	"path/filepath"
	"strings"
)

type Kind uint8

const (
	KindPackage Kind = iota
	KindBuiltin
	KindRelative
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindRelative:
		return "relative"
	default:
		return "package"
	}
}

// Target is a classified specifier. Path is the specifier itself for
// builtin and package targets and the cleaned, slash-separated path for
// relative ones.
type Target struct {
	Kind      Kind
	Specifier string
	Path      string
}

// InternalPrefix is the reserved namespace of runtime-internal modules.
const InternalPrefix = "internal/"

// NodePrefix is the explicit builtin scheme.
const NodePrefix = "node:"

var builtins = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"assert", "assert/strict", "async_hooks", "buffer", "child_process",
		"cluster", "console", "constants", "crypto", "dgram",
		"diagnostics_channel", "dns", "dns/promises", "domain", "events", "fs",
		"fs/promises", "http", "http2", "https", "inspector", "module", "net",
		"os", "path", "path/posix", "path/win32", "perf_hooks", "process",
		"punycode", "querystring", "readline", "readline/promises", "repl",
		"stream", "stream/consumers", "stream/promises", "stream/web",
		"string_decoder", "sys", "timers", "timers/promises", "tls",
		"trace_events", "tty", "url", "util", "util/types", "v8", "vm", "wasi",
		"worker_threads", "zlib",
	} {
		builtins[name] = struct{}{}
	}
}

// IsBuiltin reports whether spec names a builtin module.
func IsBuiltin(spec string) bool {
	if strings.HasPrefix(spec, NodePrefix) {
		return true
	}
	if strings.HasPrefix(spec, InternalPrefix) {
		return true
	}
	_, ok := builtins[spec]
	return ok
}

// IsRelative reports whether spec starts with a path-relative marker.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "/")
}

// Classify resolves spec as imported from a file in dir.
func Classify(dir, spec string) Target {
	switch {
	case IsBuiltin(spec):
		return Target{Kind: KindBuiltin, Specifier: spec, Path: spec}
	case IsRelative(spec):
		p := spec
		if !strings.HasPrefix(spec, "/") {
			p = filepath.Join(dir, spec)
		}
		return Target{Kind: KindRelative, Specifier: spec, Path: filepath.ToSlash(filepath.Clean(p))}
	default:
		return Target{Kind: KindPackage, Specifier: spec, Path: spec}
	}
}

// RelativeTo re-expresses target (a path) relative to dir, keeping a "./"
// prefix so the result still reads as a relative specifier.
func RelativeTo(dir, target string) (string, error) {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, nil
}
