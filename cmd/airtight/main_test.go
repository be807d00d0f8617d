package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/fix"
	"airtight/internal/rules"
	"airtight/internal/version"
)

const cleanTree = `{"type": "Program", "range": [0, 2], "sourceType": "module", "comments": [],
  "body": [{"type": "ExpressionStatement", "range": [0, 2],
    "expression": {"type": "Identifier", "range": [0, 1], "name": "x"}}]}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		closeTracing()
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	assert.ErrorContains(t, err, "invalid --ui value")
	assert.True(t, shouldUseTUI(uiModeOn))
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestHandleApplyResult(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, handleApplyResult(&out, &fix.ApplyResult{}, fix.ErrNoFixes))
	assert.Equal(t, "No applicable fixes found.\n", out.String())

	out.Reset()
	res := &fix.ApplyResult{
		Applied: []fix.AppliedFix{{
			ID: "rename-x", Title: "rename", Code: "r/m", PrimaryPath: "a.ts", EditCount: 1,
			Applicability: diag.FixApplicabilityAlwaysSafe,
		}},
		FileChanges: []fix.FileChange{{Path: "a.ts", EditCount: 1}},
		Skipped:     []fix.SkippedFix{{Reason: "conflicts with another fix"}},
	}
	require.NoError(t, handleApplyResult(&out, res, nil))
	assert.Equal(t, "Applied 1 fix(es):\n"+
		"  rename [rename-x] r/m: a.ts (1 edits, always-safe)\n"+
		"Updated files:\n"+
		"  a.ts (1 edits)\n"+
		"Skipped fixes:\n"+
		"  [(unnamed)]: conflicts with another fix\n", out.String())
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules", "--color", "off")
	require.NoError(t, err)
	for _, name := range []string{"export-inline", "import-style", "param-types", "return-await", "sequelize-comment", "unbounded-concurrency"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "R = recommended")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json", "--color", "off")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "airtight"`)
	assert.Contains(t, out, `"tagline": "`+versionTagline+`"`)
	assert.Contains(t, out, `"rules": 8`)
	assert.Contains(t, out, `"recommended": 6`)
}

func TestVersionReportCountsRules(t *testing.T) {
	r := buildVersionReport(version.Info{Version: "1.2.3"}, true, false)
	assert.Equal(t, len(rules.Names()), r.Rules)
	assert.Equal(t, r.Rules-2, r.Recommended, "itly rules are opt-in")
	assert.Equal(t, "unknown", r.GitCommit)
	assert.Empty(t, r.BuildDate)

	var out bytes.Buffer
	r.writePretty(&out, false)
	assert.Equal(t, "airtight 1.2.3: "+versionTagline+"\nrules:  8 (6 recommended)\ncommit: unknown\n", out.String())
}

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.ts")
	writeFile(t, clean, "x;\n")
	writeFile(t, clean+".ast.json", cleanTree)

	out, err := execute(t, "lint", "--no-cache", "--ui", "off", "--color", "off", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s) linted, 0 error(s), 0 warning(s)")

	writeFile(t, filepath.Join(dir, "bare.ts"), "y;\n")
	out, err = execute(t, "lint", "--no-cache", "--ui", "off", "--color", "off", "--format", "short", dir)
	require.ErrorIs(t, err, errDiagnostics)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "error missingTree "), lines[0])
	assert.Contains(t, lines[0], "bare.ts:1:1")
}

func TestLintCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "lint", "--no-cache", "--format", "xml", t.TempDir())
	assert.ErrorContains(t, err, "unknown format: xml")
}
