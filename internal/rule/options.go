package rule

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Options is the undecoded option table of one rule. Each top-level key is
// decoded on demand into the rule's typed field, replacing the default for
// that key entirely.
type Options struct {
	md     toml.MetaData
	fields map[string]toml.Primitive
}

// NewOptions wraps an option table taken from a larger TOML document.
func NewOptions(md toml.MetaData, table toml.Primitive) (Options, error) {
	fields := make(map[string]toml.Primitive)
	if err := md.PrimitiveDecode(table, &fields); err != nil {
		return Options{}, fmt.Errorf("options must be a table: %w", err)
	}
	return Options{md: md, fields: fields}, nil
}

// ParseOptions reads a standalone TOML option table.
func ParseOptions(text string) (Options, error) {
	fields := make(map[string]toml.Primitive)
	md, err := toml.Decode(text, &fields)
	if err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	return Options{md: md, fields: fields}, nil
}

// MustParseOptions is ParseOptions for literals in tests and defaults.
func MustParseOptions(text string) Options {
	o, err := ParseOptions(text)
	if err != nil {
		panic(err)
	}
	return o
}

// Has reports whether key is present. An empty list counts as present.
func (o Options) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Decode decodes key into v. It reports false, leaving v untouched, when
// the key is absent.
func (o Options) Decode(key string, v any) (bool, error) {
	prim, ok := o.fields[key]
	if !ok {
		return false, nil
	}
	if err := o.md.PrimitiveDecode(prim, v); err != nil {
		return true, fmt.Errorf("option %q: %w", key, err)
	}
	return true, nil
}

// Keys lists the present keys in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of present keys.
func (o Options) Len() int {
	return len(o.fields)
}
