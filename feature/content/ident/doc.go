// Package ident provides the stable identifier allocator used when
// synthesizing embedded records.
//
// A stable identifier is a pure function of its content-position key
// (owning record slug or name, section, positional index) within one
// synthesis run. The allocator caches the first identifier generated for a
// key, making repeated synthesis idempotent: re-importing the same record
// updates children in place instead of duplicating them.
//
// Allocators are request-scoped by design. There is no package-level
// cache; every synthesis call receives its own instance.
package ident
