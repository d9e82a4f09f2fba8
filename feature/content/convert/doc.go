// Package convert maps between canonical records and host document graphs.
//
// The two directions are intentionally asymmetric. The Synthesizer (import)
// refuses invalid input: records are schema-validated and the system
// identifier must match the active system before any document is built. The
// Normalizer (export) is lenient instead: it tolerates partial and legacy
// document shapes, unwraps the host's {value: X} scalar wrappers, falls
// back to safe defaults for unknown enumeration values and reconstructs
// plain text from block markup.
//
// Both directions share the closed lookup tables in tables.go so every
// enumeration maps the same way in and out.
package convert
