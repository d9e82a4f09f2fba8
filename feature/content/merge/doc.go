// Package merge applies partial canonical patches to existing actors and
// translates the result into ordered document-graph mutations.
//
// The engine works in two stages. Sections merges a patch into a canonical
// snapshot per section, with replace substituting the section wholesale and
// add upserting entries by their dedup key. BuildPlan then diffs the merged
// record against the existing document graph and emits a Plan: root update,
// embedded deletions, embedded creations, and finally spell creations that
// wait for host-assigned spellcasting entry identifiers. Apply executes a
// plan in that order and reports spells it had to skip because their
// owning entry was never created.
//
// Host mutation is not atomic. A store failure mid-apply leaves the
// document partially updated; Apply surfaces the error together with the
// progress made and the caller keeps the plan for recovery, it never rolls
// back.
package merge
