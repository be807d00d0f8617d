// Package rules holds the rule set and the registry the linter resolves
// rule names against.
package rules

import (
	"fmt"
	"sort"
	"sync"

	"airtight/internal/rule"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]rule.Rule{}
)

// Register adds a rule to the registry. Called from init() in each rule
// file; a duplicate name panics.
func Register(r rule.Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := r.Meta().Name
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("rules: duplicate rule registration: %s", name))
	}
	registry[name] = r
}

// Get returns the named rule.
func Get(name string) (rule.Rule, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("rules: unknown rule: %s", name)
	}
	return r, nil
}

// Names returns sorted names of all registered rules.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered rule ordered by name.
func All() []rule.Rule {
	names := Names()
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]rule.Rule, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}
