// Package linter runs a set of configured rules over one tree.
//
// All rules share a single depth-first walk: on entering a node the enter
// handlers registered for its kind run in rule order, and the leave
// handlers run after the node's subtree. Fixes are applied one pass at a
// time; FixUntilStable re-parses and re-lints until nothing applies.
package linter
