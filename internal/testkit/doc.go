// Package testkit builds trees for tests without a host parser.
//
// Parse understands the TypeScript subset the rules are written against:
// imports and exports in all their forms, functions, classes, interfaces,
// type aliases, variable declarations, if/try/return/throw, calls, member
// access, object and array literals, arrow functions and most type syntax.
// Spans follow typescript-estree: statements include their semicolon,
// annotated identifiers cover their annotation, the Program starts at the
// first token and ends at EOF. Generic parameters are skipped, not kept.
//
// RuleTester runs a rule over valid and invalid cases and compares
// messages and one pass of fixes, the way ESLint's RuleTester does.
package testkit
