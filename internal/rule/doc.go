// Package rule defines the contract every lint rule implements.
//
// A rule declares its Meta (name, message templates, fixability) and a
// Create function. Create is called once per analysed file with a fresh
// Context and returns a Visitor: handlers keyed by node kind that the linter
// calls in pre-order on enter and post-order on leave. Anything a rule needs
// to remember while walking one file (compiled patterns, seen sets) lives in
// the closure built by Create, so nothing leaks between files.
//
// Handlers report violations through Context.Report. Reporting never fails
// and never panics; a handler that decides a rule does not apply simply
// returns.
package rule
