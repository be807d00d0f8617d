package driver

import (
	"fmt"

	"airtight/internal/config"
	"airtight/internal/diag"
	"airtight/internal/linter"
	"airtight/internal/rule"
	"airtight/internal/rules"
)

// Entries resolves the configured rules into linter entries.
//
// A configuration without any [rules.*] table enables the recommended rules
// at error severity. When only is non-empty, exactly those rules run: their
// configured severity and options are used if present, even for rules the
// configuration turns off.
func Entries(cfg *config.Config, only []string) ([]linter.Entry, error) {
	configured := make(map[string]config.RuleConfig)
	if cfg != nil {
		for _, rc := range cfg.Rules {
			configured[rc.Name] = rc
		}
	}

	if len(only) > 0 {
		entries := make([]linter.Entry, 0, len(only))
		picked := make(map[string]bool, len(only))
		for _, name := range only {
			if picked[name] {
				continue
			}
			picked[name] = true
			r, err := rules.Get(name)
			if err != nil {
				return nil, err
			}
			entry := linter.Entry{Rule: r, Severity: diag.SevError}
			if rc, ok := configured[name]; ok {
				entry.Severity = rc.Severity
				entry.Options = rc.Options
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}

	if len(configured) == 0 {
		var entries []linter.Entry
		for _, r := range rules.All() {
			if r.Meta().Recommended {
				entries = append(entries, linter.Entry{Rule: r, Severity: diag.SevError, Options: rule.Options{}})
			}
		}
		return entries, nil
	}

	entries := make([]linter.Entry, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		if rc.Off {
			continue
		}
		r, err := rules.Get(rc.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configName(cfg), err)
		}
		entries = append(entries, linter.Entry{Rule: r, Severity: rc.Severity, Options: rc.Options})
	}
	return entries, nil
}

func configName(cfg *config.Config) string {
	if cfg.Path == "" {
		return config.FileName
	}
	return cfg.Path
}
