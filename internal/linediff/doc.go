// Package linediff computes line-granularity diffs between two revisions of a text document: "current" (the newer revision) and "previous" (the older one).
//
// Representation: Compute returns an ordered slice of Operations. Each Operation has a Kind and a Text that is a contiguous run of whole lines:
//   - Equal: lines present in both revisions
//   - Insert: lines present in current, absent in previous
//   - Delete: lines present in previous, absent in current
//
// Invariants:
//   - concat(Equal and Insert texts) == current
//   - concat(Equal and Delete texts) == previous
//   - No two adjacent Operations share a Kind, and no Operation has an empty Text.
//   - Every Text ends with '\n', except the last run contributing to a side whose document does not end with '\n'.
//
// Algorithm: each distinct line is interned as a single rune symbol, the symbol sequences are diffed with diffmatchpatch, a semantic cleanup pass merges noisy
// fragments at symbol level (so runs stay whole lines), and symbols are decoded back to text. Output is deterministic for a given input pair unless a non-zero
// Options.Timeout lets the underlying diff cut its search short.
//
// Newlines: '\n' is the line separator. A "\r\n" line keeps its '\r' as part of the line text, so CRLF documents diff line-by-line as expected.
//
// Rendering: Render emits a unified-style view of Operations ("+"/"-"/" " prefixes with context), optionally colorized with ANSI escapes.
package linediff
