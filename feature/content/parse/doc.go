// Package parse contains the pure text and value parsers used when moving
// between canonical records and host documents.
//
// All heuristic parsers in this package are total functions: input that
// cannot be parsed yields a nil result, never an error or a panic. Callers
// must treat nil as "field omitted", not as zero.
//
// # Components
//
//   - RichText: canonical plain text (with **bold**, *italic*, `code` and
//     bracketed action-cost tokens) to host block markup.
//   - Frequency: "twice per day" style phrases to {max, per} pairs.
//   - Sense: "scent (imprecise) 30 feet" style strings to typed senses.
//   - Price: free-text or structured coin amounts to a decimal gold value,
//     plus the lossy two-way decimal/denomination conversion.
//   - Traits: partitioning trait lists against an injected allowed set.
package parse
