package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/ast"
	"airtight/internal/diag"
	"airtight/internal/linter"
	"airtight/internal/rule"
	"airtight/internal/source"
)

const (
	// DefaultCwd is the working directory rules see in tests.
	DefaultCwd = "/work/airtight"
	// DefaultFilename is the file every case is linted as unless it sets
	// its own.
	DefaultFilename = DefaultCwd + "/tests/file.ts"
)

// ParseString adds code to a fresh FileSet as filename and parses it.
func ParseString(t testing.TB, filename, code string) (*source.FileSet, *ast.Tree) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(filename, []byte(code))
	tree, err := Parse(fs, id)
	require.NoError(t, err, "parse %q", code)
	return fs, tree
}

// ValidCase must produce no diagnostics.
type ValidCase struct {
	Name     string
	Code     string
	Filename string
	Options  string // TOML option table
}

// ExpectedError describes one diagnostic. Zero fields are not checked.
type ExpectedError struct {
	MessageID string
	Line      int
	Message   string
}

// InvalidCase must produce exactly Errors, in source order. Output is the
// source after one fix pass; empty means no fix may change the code.
type InvalidCase struct {
	Name     string
	Code     string
	Filename string
	Options  string
	Errors   []ExpectedError
	Output   string
}

// RuleTester runs one rule over cases.
type RuleTester struct {
	Cwd      string
	Filename string
}

func NewRuleTester() *RuleTester {
	return &RuleTester{Cwd: DefaultCwd, Filename: DefaultFilename}
}

// Lint runs r with options over code and returns the file set, the file
// id and the diagnostics.
func (rt *RuleTester) Lint(t testing.TB, r rule.Rule, filename, code, options string) (*source.FileSet, source.FileID, []diag.Diagnostic) {
	t.Helper()
	if filename == "" {
		filename = rt.Filename
	}
	opts, err := rule.ParseOptions(options)
	require.NoError(t, err)
	fs, tree := ParseString(t, filename, code)
	l := linter.New(rt.Cwd, linter.Entry{Rule: r, Severity: diag.SevError, Options: opts})
	diags, err := l.Lint(context.Background(), fs, tree)
	require.NoError(t, err)
	return fs, tree.File, diags
}

// Run executes valid and invalid cases as subtests.
func (rt *RuleTester) Run(t *testing.T, r rule.Rule, valid []ValidCase, invalid []InvalidCase) {
	t.Helper()
	for _, tc := range valid {
		t.Run("valid/"+caseName(tc.Name, tc.Code), func(t *testing.T) {
			_, _, diags := rt.Lint(t, r, tc.Filename, tc.Code, tc.Options)
			assert.Empty(t, messages(diags), "code: %s", tc.Code)
		})
	}
	for _, tc := range invalid {
		t.Run("invalid/"+caseName(tc.Name, tc.Code), func(t *testing.T) {
			fs, id, diags := rt.Lint(t, r, tc.Filename, tc.Code, tc.Options)
			require.Len(t, diags, len(tc.Errors), "diagnostics: %v", messages(diags))
			for i, want := range tc.Errors {
				got := diags[i]
				if want.MessageID != "" {
					assert.Equal(t, want.MessageID, got.MessageID, "error %d", i)
				}
				if want.Message != "" {
					assert.Equal(t, want.Message, got.Message, "error %d", i)
				}
				if want.Line != 0 {
					start, _ := fs.Resolve(got.Primary)
					assert.Equal(t, want.Line, int(start.Line), "error %d line", i)
				}
			}

			output := tc.Output
			if output == "" {
				output = tc.Code
			}
			fixed, _, err := linter.ApplyFixes(fs, id, diags)
			require.NoError(t, err)
			assert.Equal(t, output, string(fixed))
		})
	}
}

func caseName(name, code string) string {
	if name != "" {
		return name
	}
	if len(code) > 40 {
		return code[:40]
	}
	return code
}

func messages(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for i := range diags {
		out = append(out, diags[i].Code()+": "+diags[i].Message)
	}
	return out
}
