package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/diag"
	"airtight/internal/linter"
	"airtight/internal/rule"
	"airtight/internal/rules"
	"airtight/internal/testkit"
)

const fooTypes = `
required = [".*"]
[fixes]
foo = ["./lib/types", "Foo"]
`

func TestParamTypes(t *testing.T) {
	testkit.NewRuleTester().Run(t, rules.ParamTypes{},
		[]testkit.ValidCase{
			{Code: `function test() {}`},
			{Code: `function test(foo: Foo) {}`},
			{Code: `function test(foo: Foo, bar: Bar) {}`},
			{Code: `function test(foo: Foo, bar: Bar): Baz { return {}; }`},
			{Code: `async function test() {}`},
			{Code: `async function test(foo: Foo) {}`},
			{Code: `const test = () => 1;`},
			{Code: `const test = (foo: Foo) => 1;`},
			{Code: `const test = async (foo: Foo) => 1;`},
			{Code: `function test({ a }, [b], ...rest) {}`},
			{Code: `function test(req, res) {}`, Options: `required = ["foo"]`},
			{Code: `function test(_unused) {}`, Options: `excluded = ["_.*"]`},
			{Name: "default value", Code: `export function test(foo = 1) {}`, Options: fooTypes},
		},
		[]testkit.InvalidCase{
			{
				Options: fooTypes,
				Code:    `function test(foo) {}`,
				Output:  "import type { Foo } from '../lib/types';\nfunction test(foo: Foo) {}",
				Errors:  []testkit.ExpectedError{{Line: 1, MessageID: "mustBeTyped"}},
			},
			{
				Options: fooTypes,
				Code:    "import type { Foo } from '../lib/types';\nfunction test(foo) {}",
				Output:  "import type { Foo } from '../lib/types';\nfunction test(foo: Foo) {}",
				Errors:  []testkit.ExpectedError{{Line: 2, MessageID: "mustBeTyped"}},
			},
			{
				Options: fooTypes,
				Code:    "function test(foo) {}\nfunction two(foo) {}\nfunction three(foo) {}\n",
				Output:  "import type { Foo } from '../lib/types';\nfunction test(foo: Foo) {}\nfunction two(foo: Foo) {}\nfunction three(foo: Foo) {}\n",
				Errors: []testkit.ExpectedError{
					{Line: 1, MessageID: "mustBeTyped"},
					{Line: 2, MessageID: "mustBeTyped"},
					{Line: 3, MessageID: "mustBeTyped"},
				},
			},
			{
				Options: "required = [\".*\"]\n[fixes]\nfoo = [\"lib-foo\", \"Foo\"]\n",
				Code:    `function test(foo) {}`,
				Output:  "import type { Foo } from 'lib-foo';\nfunction test(foo: Foo) {}",
				Errors:  []testkit.ExpectedError{{Line: 1, MessageID: "mustBeTyped"}},
			},
			{
				Name:   "no fix without a matching pattern",
				Code:   `function test(bar, baz) {}`,
				Errors: []testkit.ExpectedError{
					{MessageID: "mustBeTyped", Message: "Explicitly specifying a type is required for this parameter."},
					{MessageID: "mustBeTyped"},
				},
			},
			{
				Name:    "first sorted pattern wins",
				Options: "[fixes]\n\"f.*\" = [\"a\", \"A\"]\nfoo = [\"b\", \"B\"]\n",
				Code:    `function test(foo) {}`,
				Output:  "import type { A } from 'a';\nfunction test(foo: A) {}",
				Errors:  []testkit.ExpectedError{{MessageID: "mustBeTyped"}},
			},
		},
	)
}

func TestParamTypesFixIsIdempotent(t *testing.T) {
	opts, err := rule.ParseOptions(fooTypes)
	require.NoError(t, err)
	l := linter.New(testkit.DefaultCwd, linter.Entry{Rule: rules.ParamTypes{}, Severity: diag.SevError, Options: opts})

	code := "function test(foo) {}\nfunction two(foo) {}\nfunction three(foo) {}\n"
	first, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, []byte(code), testkit.Parse)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Passes)
	assert.Equal(t, 3, first.Applied)
	assert.Empty(t, first.Diagnostics)
	assert.Equal(t, 1, strings.Count(string(first.Output), "import type { Foo }"))

	second, err := l.FixUntilStable(context.Background(), testkit.DefaultFilename, first.Output, testkit.Parse)
	require.NoError(t, err)
	assert.Zero(t, second.Passes)
	assert.Equal(t, string(first.Output), string(second.Output))
}

func TestParamTypesBadPattern(t *testing.T) {
	_, _, diags := testkit.NewRuleTester().Lint(t, rules.ParamTypes{}, "", `function test(foo) {}`, `required = ["("]`)
	require.Len(t, diags, 1)
	assert.Equal(t, "configError", diags[0].MessageID)
	assert.Contains(t, diags[0].Message, `pattern "("`)
}
