// Package content is the canonical content pipeline feature: validation,
// import, export, section merges and generation of tabletop game records.
//
// # Components
//
//   - Service: wires the validator, synthesizer, normalizer and merge
//     engine to the world store and the shared content libraries.
//   - Handler: the HTTP surface under /content.
//   - Feature: the loader registration glue.
//
// The heavy lifting lives in the subpackages: models (canonical and host
// shapes), parse (text and value parsers), ident (stable identifiers),
// schema (structural validation), convert (both mapping directions),
// merge (section merges and mutation plans) and store (persistence).
package content
