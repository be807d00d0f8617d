// Package config finds and decodes .airtight.toml.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"airtight/internal/diag"
	"airtight/internal/rule"
)

// FileName is the configuration file looked up from the lint target upwards.
const FileName = ".airtight.toml"

// DefaultASTSuffix is appended to a source path to find its ESTree JSON.
const DefaultASTSuffix = ".ast.json"

// ErrNotFound is returned by Find when no configuration file exists between
// the start directory and the filesystem root.
var ErrNotFound = errors.New("no " + FileName + " found")

// DefaultIgnore lists directory names skipped during discovery.
var DefaultIgnore = []string{"node_modules", ".git", "dist", "build"}

// Config is the decoded configuration. Path is empty for defaults.
type Config struct {
	Path      string
	Root      string
	Jobs      int
	ASTSuffix string
	Ignore    []string
	// Rules is sorted by name. Empty means the recommended set.
	Rules []RuleConfig

	digest [sha256.Size]byte
}

// RuleConfig is one [rules.<name>] table.
type RuleConfig struct {
	Name     string
	Off      bool
	Severity diag.Severity
	Options  rule.Options
}

type fileConfig struct {
	Jobs      int                  `toml:"jobs"`
	ASTSuffix string               `toml:"ast_suffix"`
	Ignore    []string             `toml:"ignore"`
	Rules     map[string]ruleTable `toml:"rules"`
}

type ruleTable struct {
	Severity string         `toml:"severity"`
	Options  toml.Primitive `toml:"options"`
}

// Default returns the configuration used when no file is found.
func Default(root string) *Config {
	return &Config{
		Root:      root,
		ASTSuffix: DefaultASTSuffix,
		Ignore:    append([]string(nil), DefaultIgnore...),
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Discover loads the configuration governing startDir, falling back to
// Default rooted at startDir.
func Discover(startDir string) (*Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, absErr
		}
		if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
			root = filepath.Dir(root)
		}
		return Default(root), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads and decodes the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied config path
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes configuration text. Root and Path are left empty.
func Parse(text string) (*Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var unknown []string
		for _, key := range undecoded {
			// option tables are decoded later by each rule
			if len(key) >= 3 && key[0] == "rules" && key[2] == "options" {
				continue
			}
			unknown = append(unknown, key.String())
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
		}
	}
	if raw.Jobs < 0 {
		return nil, fmt.Errorf("jobs must not be negative, got %d", raw.Jobs)
	}

	cfg := Default("")
	cfg.Jobs = raw.Jobs
	cfg.digest = sha256.Sum256([]byte(text))
	if raw.ASTSuffix != "" {
		cfg.ASTSuffix = raw.ASTSuffix
	}
	if meta.IsDefined("ignore") {
		cfg.Ignore = raw.Ignore
	}

	names := make([]string, 0, len(raw.Rules))
	for name := range raw.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rc, err := decodeRule(meta, name, raw.Rules[name])
		if err != nil {
			return nil, fmt.Errorf("[rules.%s]: %w", name, err)
		}
		cfg.Rules = append(cfg.Rules, rc)
	}
	return cfg, nil
}

func decodeRule(meta toml.MetaData, name string, table ruleTable) (RuleConfig, error) {
	rc := RuleConfig{Name: name, Severity: diag.SevError}
	if strings.EqualFold(strings.TrimSpace(table.Severity), "off") {
		rc.Off = true
	} else {
		sev, err := diag.ParseSeverity(table.Severity)
		if err != nil {
			return rc, err
		}
		rc.Severity = sev
	}
	if meta.IsDefined("rules", name, "options") {
		if typ := meta.Type("rules", name, "options"); typ != "Hash" {
			return rc, fmt.Errorf("options must be a table, got %s", strings.ToLower(typ))
		}
		opts, err := rule.NewOptions(meta, table.Options)
		if err != nil {
			return rc, err
		}
		rc.Options = opts
	}
	return rc, nil
}

// Digest identifies the configuration text; defaults hash to zero.
func (c *Config) Digest() [sha256.Size]byte {
	return c.digest
}

// Ignored reports whether a directory with this base name is skipped.
func (c *Config) Ignored(name string) bool {
	for _, pattern := range c.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
