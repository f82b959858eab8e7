// Package diag defines the diagnostic model shared by every resolution stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, block parser, identity validator, facet extractor
//     and the feature resolvers.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration. Rendering lives
// in internal/diagfmt; orchestration and bag merging live in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error). The engine treats
//     Error as "hard" (blocks synthesis of the affected feature) and both
//     Info and Warning as informational (never block).
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form and a category derived from its numeric range.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the issue. A zero
//     span means the diagnostic has no file attribution (rare; IO only).
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g. "facet
// also declared here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Stages use a diag.Reporter to decouple emission from storage. Stages that
// need notes construct a ReportBuilder via the ReportError/ReportWarning/
// ReportInfo helpers and chain WithNote before calling Emit. BagReporter
// aggregates diagnostics into a Bag, which supports merging, deterministic
// sorting and deduplication.
//
// A single run never short-circuits: every stage keeps reporting into its Bag
// and the driver merges all bags after the parallel phase, so one pass
// surfaces the maximal diagnostic set in a stable order.
package diag
