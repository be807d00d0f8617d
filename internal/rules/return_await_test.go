package rules_test

import (
	"testing"

	"airtight/internal/rules"
	"airtight/internal/testkit"
)

func TestReturnAwait(t *testing.T) {
	testkit.NewRuleTester().Run(t, rules.ReturnAwait{},
		[]testkit.ValidCase{
			{Code: `async function f() { return load(); }`},
			{Code: `async function f() { try { return await load(); } catch (e) {} }`},
			{Code: `function f() { try { return load(); } catch (e) {} }`},
			{Code: `async function f() { try { return value; } catch (e) {} }`},
			{Name: "catch clause", Code: `async function f() { try { x(); } catch (e) { return load(); } }`},
			{Name: "finally block", Code: `async function f() { try { x(); } finally { return load(); } }`},
			{Name: "nested sync function", Code: `async function f() { try { const g = () => { return load(); }; } catch (e) {} }`},
			{Name: "try outside function", Code: `try { function g() { return load(); } } catch (e) {}`},
		},
		[]testkit.InvalidCase{
			{
				Code:   "async function f() {\n  try {\n    return load();\n  } catch (e) {}\n}",
				Output: "async function f() {\n  try {\n    return await load();\n  } catch (e) {}\n}",
				Errors: []testkit.ExpectedError{{Line: 3, MessageID: "requiresAwait"}},
			},
			{
				Name:   "async arrow",
				Code:   `const f = async () => { try { return this.client.send(req); } catch (e) { throw e; } };`,
				Output: `const f = async () => { try { return await this.client.send(req); } catch (e) { throw e; } };`,
				Errors: []testkit.ExpectedError{{MessageID: "requiresAwait", Message: "Returned promise must be awaited inside a try block"}},
			},
			{
				Name:   "nested block",
				Code:   `async function f() { try { if (ok) { return a(); } return b(); } finally { done(); } }`,
				Output: `async function f() { try { if (ok) { return await a(); } return await b(); } finally { done(); } }`,
				Errors: []testkit.ExpectedError{{MessageID: "requiresAwait"}, {MessageID: "requiresAwait"}},
			},
		},
	)
}
