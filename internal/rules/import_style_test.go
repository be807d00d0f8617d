package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/imports"
	"airtight/internal/rules"
	"airtight/internal/testkit"
)

const fsNamed = `requireToNamed = [{ local = "fs", path = "fs" }]`

func TestImportStyle(t *testing.T) {
	testkit.NewRuleTester().Run(t, rules.ImportStyle{Matcher: rules.AcceptAllNamespaces},
		[]testkit.ValidCase{
			{Code: `import { readFile } from 'fs';`, Options: fsNamed},
			{Code: `import * as fs from 'fs';`, Options: fsNamed},
			{Name: "default options", Code: `import * as path from 'path';`},
			{Code: `import x = Foo.Bar;`, Options: fsNamed},
		},
		[]testkit.InvalidCase{
			{
				Options: fsNamed,
				Code:    `import fs = require('fs');`,
				Output:  `import { fs } from 'fs';`,
				Errors:  []testkit.ExpectedError{{Line: 1, MessageID: "useRegularImport", Message: "Modern import style available"}},
			},
			{
				Name:    "unmatched pair",
				Options: fsNamed,
				Code:    `import path = require("path");`,
				Errors:  []testkit.ExpectedError{{MessageID: "useRegularImport"}},
			},
			{
				Name:   "default options report without fix",
				Code:   `import fs = require('fs');`,
				Errors: []testkit.ExpectedError{{MessageID: "useRegularImport"}},
			},
			{
				Name:    "first match wins",
				Options: `requireToNamed = [{ local = "fs", path = "fs" }, { local = "fs", path = "fs" }]`,
				Code:    "import fs = require('fs');\nreadFile();",
				Output:  "import { fs } from 'fs';\nreadFile();",
				Errors:  []testkit.ExpectedError{{Line: 1, MessageID: "useRegularImport"}},
			},
			{
				Name:    "namespace to require",
				Options: `wildNsToRequire = [{ local = "lodash", path = "lodash" }]`,
				Code:    `import * as lodash from 'lodash';`,
				Output:  `import lodash = require('lodash');`,
				Errors:  []testkit.ExpectedError{{MessageID: "useRegularImport"}},
			},
		},
	)
}

func TestImportStyleMatcher(t *testing.T) {
	var seen []imports.Target
	onlyPackages := func(target imports.Target, local string, patterns []rules.ImportPair) bool {
		seen = append(seen, target)
		for _, p := range patterns {
			if p.Local == local && p.Path == target.Path {
				return true
			}
		}
		return false
	}
	r := rules.ImportStyle{Matcher: onlyPackages}
	opts := `wildNsToRequire = [{ local = "lodash", path = "lodash" }]`
	code := "import * as lodash from 'lodash';\nimport * as util from './util';\nimport * as fs from 'node:fs';"

	_, _, diags := testkit.NewRuleTester().Lint(t, r, "", code, opts)
	require.Len(t, diags, 3)
	for _, d := range diags {
		assert.Equal(t, "useRegularImport", d.MessageID)
	}
	assert.Len(t, diags[0].Fixes, 1, "lodash matches")
	assert.Empty(t, diags[1].Fixes)
	assert.Empty(t, diags[2].Fixes)

	require.Len(t, seen, 3)
	assert.Equal(t, imports.KindPackage, seen[0].Kind)
	assert.Equal(t, imports.KindRelative, seen[1].Kind)
	assert.Equal(t, testkit.DefaultCwd+"/tests/util", seen[1].Path)
	assert.Equal(t, imports.KindBuiltin, seen[2].Kind)
}

func TestImportStyleRejectedNamespaceStillReports(t *testing.T) {
	never := func(imports.Target, string, []rules.ImportPair) bool { return false }
	_, _, diags := testkit.NewRuleTester().Lint(t, rules.ImportStyle{Matcher: never}, "", `import * as fs from 'fs';`, `wildNsToRequire = []`)
	require.Len(t, diags, 1)
	assert.Equal(t, "useRegularImport", diags[0].MessageID)
	assert.Empty(t, diags[0].Fixes)
}
