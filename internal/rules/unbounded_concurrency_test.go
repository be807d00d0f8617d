package rules_test

import (
	"testing"

	"airtight/internal/rules"
	"airtight/internal/testkit"
)

func TestUnboundedConcurrency(t *testing.T) {
	testkit.NewRuleTester().Run(t, rules.UnboundedConcurrency{},
		[]testkit.ValidCase{
			{Code: `await Promise.all([a(), b()]);`},
			{Code: `await Promise.all(tasks);`},
			{Code: `await Promise.allSettled(items.map(load));`},
			{Code: `await pMap(items, load, { concurrency: 4 });`},
			{Code: `items.map(load);`},
			{Code: `await Promise.all(items.filter(Boolean));`},
		},
		[]testkit.InvalidCase{
			{
				Code:   `await Promise.all(items.map(load));`,
				Errors: []testkit.ExpectedError{{Line: 1, MessageID: "unboundedConcurrency"}},
			},
			{
				Code: "async function sync(users) {\n  await Promise.all(users.map(async (u) => save(u)));\n}",
				Errors: []testkit.ExpectedError{{Line: 2, MessageID: "unboundedConcurrency"}},
			},
		},
	)
}
