// Package diag defines the report model shared by rules, the linter, the
// driver and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Rule and MessageID – the reporting rule and one of its declared message
//     ids; Code() joins them into the identifier shown to users.
//   - Message – the rule's message template with Data interpolated
//     (see Interpolate).
//   - Primary span – the node the violation was reported on.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Fix suggestions
//
// A Fix carries a title, a kind, an applicability level and a list of
// TextEdits. Edits are always expressed against the original, unmodified
// buffer. Edits of one fix must not overlap; Resolve and MaterializeFixes
// enforce that and drop the fix otherwise, so a violation is still reported
// without a patch.
//
// A fix may be lazy: Thunk builds the edits when a renderer or the fix engine
// asks for them.
//
// # Emitting diagnostics
//
// Producers build a Diagnostic with New / NewError and the With* helpers,
// then hand it to a Reporter.
// BagReporter aggregates into a Bag, which supports sorting and filtering.
//
// Package diag does no formatting and no IO.
// Rendering lives in internal/diagfmt, application of fixes in internal/fix.
package diag
