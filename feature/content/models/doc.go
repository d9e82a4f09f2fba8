// Package models defines the two record representations this service
// translates between:
//
//  1. Canonical records: versioned, system-agnostic JSON structures
//     (Action, Item, Actor) tagged by schema_version, systemId and type.
//     Slugs are the identity keys used for de-duplication against existing
//     documents and shared content libraries.
//
//  2. Document graphs: the host store's native representation, a root
//     Document plus embedded child records, with host-specific field paths
//     and {value: X} wrapper shapes.
//
// Each embedded-record kind (strike, action, spellcasting entry, spell,
// lore, inventory item) has its own closed system struct so every host
// field access is a named field, never a dynamic probe.
package models
