package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"airtight/internal/rules"
	"airtight/internal/testkit"
)

const itlyFile = "/work/app/src/itly/index.ts"

func TestRequireItlyConstant(t *testing.T) {
	r, err := rules.Get("require-itly-constant")
	require.NoError(t, err)

	testkit.NewRuleTester().Run(t, r,
		[]testkit.ValidCase{
			{
				Name:     "type literal",
				Filename: itlyFile,
				Code: `export class Signup implements Event {
  name = 'signup';
  properties: SignupProperties & { 'itly': true };
}`,
			},
			{
				Name:     "object value",
				Filename: itlyFile,
				Code: `export class Login implements Event {
  properties = { itly: true, method: 'sso' };
}`,
			},
			{
				Name:     "string key",
				Filename: itlyFile,
				Code:     `class Logout implements Event { properties = { 'itly': true }; }`,
			},
			{
				Name:     "not an event",
				Filename: itlyFile,
				Code:     `class Client implements Plugin { properties = {}; }`,
			},
			{Name: "no classes elsewhere", Code: `const itly = new Itly();`},
		},
		[]testkit.InvalidCase{
			{
				Filename: itlyFile,
				Code: `export class Signup implements Event {
  properties: SignupProperties & { method: string };
}`,
				Errors: []testkit.ExpectedError{{
					Line:      1,
					MessageID: "missingRequiredItlyProperty",
					Message:   "Signup is missing the Iteratively property group",
				}},
			},
			{
				Name:     "no properties member",
				Filename: itlyFile,
				Code:     "class A implements Event {}\nclass B implements Event { name = 'b'; }",
				Errors: []testkit.ExpectedError{
					{Line: 1, MessageID: "missingRequiredItlyProperty"},
					{Line: 2, MessageID: "missingRequiredItlyProperty", Message: "B is missing the Iteratively property group"},
				},
			},
			{
				Name: "wrong file",
				Code: `class Signup implements Event { properties = { itly: true }; }`,
				Errors: []testkit.ExpectedError{{
					MessageID: "invalidFile",
					Message:   "require-itly-constant should only be enabled for the generated Itly library",
				}},
			},
		},
	)
}

func TestRequireItlyEventSource(t *testing.T) {
	r, err := rules.Get("require-itly-event-source")
	require.NoError(t, err)

	testkit.NewRuleTester().Run(t, r,
		[]testkit.ValidCase{
			{
				Name:     "exported interface",
				Filename: itlyFile,
				Code: `export interface SignupProperties {
  eventSource: string;
  method: string;
}
export class Signup implements Event {
  properties: SignupProperties & { itly: true };
}`,
			},
			{
				Name:     "type literal",
				Filename: itlyFile,
				Code:     `class Signup implements Event { properties: Base & { eventSource: 'web' }; }`,
			},
		},
		[]testkit.InvalidCase{
			{
				Name:     "interface without the key",
				Filename: itlyFile,
				Code: `export interface SignupProperties { method: string }
export class Signup implements Event {
  properties: SignupProperties & { itly: true };
}`,
				Errors: []testkit.ExpectedError{{
					Line:      2,
					MessageID: "missingRequiredItlyProperty",
					Message:   "Signup is missing the Event Source property group, please update the Event at data.amplitude.com/snyk",
				}},
			},
			{
				Name:     "local interface",
				Filename: itlyFile,
				Code: `interface SignupProperties { eventSource: string }
export class Signup implements Event {
  properties: SignupProperties & { itly: true };
}`,
				Errors: []testkit.ExpectedError{{Line: 2, MessageID: "missingRequiredItlyProperty"}},
			},
			{
				Name:     "unknown interface",
				Filename: itlyFile,
				Code:     `class Signup implements Event { properties: Missing & { itly: true }; }`,
				Errors:   []testkit.ExpectedError{{MessageID: "missingRequiredItlyProperty"}},
			},
			{
				Name:   "wrong file",
				Code:   `class Signup implements Event {}`,
				Errors: []testkit.ExpectedError{{MessageID: "invalidFile"}},
			},
		},
	)
}
