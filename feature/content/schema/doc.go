// Package schema validates canonical records against the versioned
// canonical schemas before any synthesis or merge is attempted.
//
// Schemas are JSON Schema (draft 2020-12) documents embedded in the binary
// and compiled once per Validator. Every (schema_version, type) pair maps
// to exactly one schema; additional properties are rejected. Validation
// failures return the full ordered violation list, never a truncated or
// swallowed summary.
package schema
