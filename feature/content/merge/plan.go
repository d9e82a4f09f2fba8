package merge

import (
	"context"
	"fmt"

	"content-forge/feature/content/convert"
	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
)

// DocumentStore is the slice of the host store the apply step consumes.
type DocumentStore interface {
	Update(ctx context.Context, doc *models.Document) error
	CreateEmbedded(ctx context.Context, ownerID string, records []models.Embedded) ([]models.Embedded, error)
	DeleteEmbedded(ctx context.Context, ownerID string, ids []string) error
}

// Options controls plan execution.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed the mutations.
	// If false, Apply executes nothing regardless of DryRun.
	Confirmed bool
}

// SkippedSpell records a spell dropped because its owning spellcasting
// entry could not be resolved.
type SkippedSpell struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	Deletes int `json:"deletes"`
	Creates int `json:"creates"`
	Spells  int `json:"spells"`
	Skipped int `json:"skipped"`
}

// Plan is the ordered set of document mutations realizing a section merge:
// root update first, then embedded deletions, then embedded creations,
// with spells held back until their entry identifiers are resolved.
type Plan struct {
	// OwnerID is the root document identifier the mutations target.
	OwnerID string `json:"owner_id"`

	// Root is the full root payload for the update step.
	Root *models.Document `json:"root"`

	// DeleteIDs lists embedded records removed by replace operations.
	DeleteIDs []string `json:"delete_ids"`

	// Creates lists new embedded records whose references, if any, are
	// already resolved. Created before Spells.
	Creates []models.Embedded `json:"creates"`

	// Spells lists spell records referencing provisional entry
	// identifiers. Their location fields are remapped to host-assigned
	// identifiers after Creates completes.
	Spells []models.Embedded `json:"spells"`

	// Skipped lists spells dropped at build time.
	Skipped []SkippedSpell `json:"skipped,omitempty"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// ApplyResult reports what an Apply call executed.
type ApplyResult struct {
	// Executed counts the mutations issued against the store.
	Executed int

	// Skipped lists spells dropped because their provisional entry
	// identifier had no host-assigned counterpart.
	Skipped []SkippedSpell
}

// embeddedKind classifies an embedded record by the section owning it.
func embeddedKind(typeName string) Section {
	switch typeName {
	case models.EmbeddedMelee:
		return SectionStrikes
	case models.EmbeddedLore:
		return SectionSkills
	case models.EmbeddedAction:
		return SectionActions
	case models.EmbeddedSpellcasting, models.EmbeddedSpell:
		return SectionSpells
	default:
		return SectionInventory
	}
}

// BuildPlan translates a section merge into document-graph mutations
// against the existing document. merged must already be the output of
// Sections for the same request; the synthesizer validates it before any
// mutation is planned.
//
// replace deletes every existing embedded record of the section's types
// and recreates them from the merged record. add creates only records
// whose dedup key is absent from the existing document, preserving the
// identifiers of records that survive.
func BuildPlan(existing *models.Document, merged *models.Actor, req Request, synth *convert.Synthesizer, alloc *ident.Allocator) (*Plan, error) {
	full, err := synth.Actor(merged, alloc)
	if err != nil {
		return nil, err
	}

	root := *full
	root.ID = existing.ID
	root.Items = nil
	// A portrait the user chose survives the merge; placeholders are
	// replaced by the synthesized default.
	if !convert.IsPlaceholderImage(existing.Img) {
		root.Img = existing.Img
	}

	plan := &Plan{OwnerID: existing.ID, Root: &root}

	existingByKind := map[Section][]models.Embedded{}
	for _, item := range existing.Items {
		kind := embeddedKind(item.Type)
		existingByKind[kind] = append(existingByKind[kind], item)
	}

	if op, ok := req[SectionSkills]; ok {
		plan.mergeFlatSection(existingByKind[SectionSkills], synth.SkillRecords(merged, alloc), op, skillKeys(merged))
	}
	if op, ok := req[SectionStrikes]; ok {
		plan.mergeFlatSection(existingByKind[SectionStrikes], synth.StrikeRecords(merged, alloc), op, strikeKeys(merged))
	}
	if op, ok := req[SectionActions]; ok {
		plan.mergeFlatSection(existingByKind[SectionActions], synth.ActionRecords(merged, alloc), op, actionKeys(merged))
	}
	if op, ok := req[SectionInventory]; ok {
		plan.mergeFlatSection(existingByKind[SectionInventory], synth.InventoryRecords(merged, alloc), op, inventoryKeys(merged))
	}
	if op, ok := req[SectionSpells]; ok {
		plan.mergeSpellSection(existingByKind[SectionSpells], merged, synth, alloc, op)
	}

	plan.Summary = Summary{
		Deletes: len(plan.DeleteIDs),
		Creates: len(plan.Creates),
		Spells:  len(plan.Spells),
		Skipped: len(plan.Skipped),
	}
	return plan, nil
}

// mergeFlatSection plans mutations for a section without internal
// references. keys aligns with synthesized: keys[i] is the dedup key of
// synthesized[i].
func (p *Plan) mergeFlatSection(existing, synthesized []models.Embedded, op Op, keys []string) {
	if op == OpReplace {
		for _, item := range existing {
			p.DeleteIDs = append(p.DeleteIDs, item.ID)
		}
		p.Creates = append(p.Creates, synthesized...)
		return
	}
	present := map[string]bool{}
	for _, item := range existing {
		present[embeddedDedupKey(item)] = true
	}
	for i, rec := range synthesized {
		if !present[keys[i]] {
			p.Creates = append(p.Creates, rec)
		}
	}
}

// mergeSpellSection plans mutations for spellcasting entries and their
// spells. New entries carry provisional identifiers that are remapped to
// host-assigned ones during Apply; spells added to surviving entries
// reference the real identifier directly and need no remap.
func (p *Plan) mergeSpellSection(existing []models.Embedded, merged *models.Actor, synth *convert.Synthesizer, alloc *ident.Allocator, op Op) {
	records := synth.SpellcastingRecords(merged, alloc)

	if op == OpReplace {
		for _, item := range existing {
			p.DeleteIDs = append(p.DeleteIDs, item.ID)
		}
		for _, rec := range records {
			if rec.Type == models.EmbeddedSpell {
				p.Spells = append(p.Spells, rec)
			} else {
				p.Creates = append(p.Creates, rec)
			}
		}
		return
	}

	// Index surviving entries by dedup key and their spells by per-entry
	// spell key.
	entryIDByKey := map[string]string{}
	for _, item := range existing {
		if item.Type == models.EmbeddedSpellcasting {
			entryIDByKey[embeddedDedupKey(item)] = item.ID
		}
	}
	existingSpells := map[string]bool{}
	for _, item := range existing {
		if item.Type == models.EmbeddedSpell {
			location := convert.SystemText(item.System, "location")
			existingSpells[location+"|"+embeddedDedupKey(item)] = true
		}
	}

	// records interleaves each entry with its spells in canonical order.
	entryIndex := -1
	for _, rec := range records {
		if rec.Type == models.EmbeddedSpellcasting {
			entryIndex++
			key := EntryKey(merged.Spellcasting[entryIndex])
			if _, survives := entryIDByKey[key]; !survives {
				p.Creates = append(p.Creates, rec)
			}
			continue
		}

		key := EntryKey(merged.Spellcasting[entryIndex])
		spellKey := SpellKey(models.SpellEntry{
			Level: convert.SystemInt(rec.System, "level"),
			Name:  rec.Name,
		})
		realID, survives := entryIDByKey[key]
		if !survives {
			// Provisional location, remapped after entry creation.
			p.Spells = append(p.Spells, rec)
			continue
		}
		if existingSpells[realID+"|"+spellKey] {
			continue
		}
		spell := rec
		spell.System = relocateSpell(rec.System, realID)
		p.Creates = append(p.Creates, spell)
	}
}

// relocateSpell rewrites a spell system's location to the resolved entry
// identifier.
func relocateSpell(system any, entryID string) any {
	if sys, ok := system.(models.SpellSystem); ok {
		sys.Location = models.ValueStr{Value: entryID}
		return sys
	}
	return system
}

// embeddedDedupKey derives the section dedup key from a host embedded
// record, matching the canonical key functions in merge.go.
func embeddedDedupKey(item models.Embedded) string {
	switch item.Type {
	case models.EmbeddedMelee, models.EmbeddedLore, models.EmbeddedAction:
		return models.Sluggify(item.Name)
	case models.EmbeddedSpellcasting:
		return EntryKey(models.Spellcasting{
			Name:        item.Name,
			Tradition:   convert.SystemText(item.System, "tradition"),
			CastingType: convert.SystemText(item.System, "prepared"),
		})
	case models.EmbeddedSpell:
		return SpellKey(models.SpellEntry{
			Level: convert.SystemInt(item.System, "level"),
			Name:  item.Name,
		})
	default:
		if slug := convert.SystemText(item.System, "slug"); slug != "" {
			return slug
		}
		return InventoryKey(models.InventoryItem{
			Name:     item.Name,
			Category: convert.CanonicalItemType(item.Type),
		})
	}
}

func skillKeys(rec *models.Actor) []string {
	keys := make([]string, len(rec.Skills))
	for i, skill := range rec.Skills {
		keys[i] = models.Sluggify(skill.Name)
	}
	return keys
}

func strikeKeys(rec *models.Actor) []string {
	keys := make([]string, len(rec.Strikes))
	for i, strike := range rec.Strikes {
		keys[i] = models.Sluggify(strike.Name)
	}
	return keys
}

func actionKeys(rec *models.Actor) []string {
	keys := make([]string, len(rec.Actions))
	for i, action := range rec.Actions {
		keys[i] = models.Sluggify(action.Name)
	}
	return keys
}

func inventoryKeys(rec *models.Actor) []string {
	keys := make([]string, len(rec.Inventory))
	for i, item := range rec.Inventory {
		keys[i] = InventoryKey(item)
	}
	return keys
}

// Apply executes a plan against the host store in the required order:
// root update, deletions, creations, then spells once entry identifiers
// are resolved. Requires opts.Confirmed=true and opts.DryRun=false to
// execute. Store failures are returned unmodified alongside the progress
// made so far; the caller keeps the plan for manual recovery.
func Apply(ctx context.Context, store DocumentStore, plan *Plan, opts Options) (*ApplyResult, error) {
	result := &ApplyResult{Skipped: append([]SkippedSpell(nil), plan.Skipped...)}
	if !opts.Confirmed || opts.DryRun {
		return result, nil
	}

	if err := store.Update(ctx, plan.Root); err != nil {
		return result, fmt.Errorf("failed to update root document %s: %w", plan.OwnerID, err)
	}
	result.Executed++

	if len(plan.DeleteIDs) > 0 {
		if err := store.DeleteEmbedded(ctx, plan.OwnerID, plan.DeleteIDs); err != nil {
			return result, fmt.Errorf("failed to delete embedded records: %w", err)
		}
		result.Executed += len(plan.DeleteIDs)
	}

	remap := map[string]string{}
	if len(plan.Creates) > 0 {
		created, err := store.CreateEmbedded(ctx, plan.OwnerID, plan.Creates)
		if err != nil {
			return result, fmt.Errorf("failed to create embedded records: %w", err)
		}
		for i := range created {
			if i < len(plan.Creates) {
				remap[plan.Creates[i].ID] = created[i].ID
			}
		}
		result.Executed += len(created)
	}

	var spells []models.Embedded
	for _, spell := range plan.Spells {
		provisional := convert.SystemText(spell.System, "location")
		resolved, ok := remap[provisional]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedSpell{
				Name:   spell.Name,
				Reason: fmt.Sprintf("spellcasting entry %s was not created", provisional),
			})
			continue
		}
		spell.System = relocateSpell(spell.System, resolved)
		spells = append(spells, spell)
	}
	if len(spells) > 0 {
		created, err := store.CreateEmbedded(ctx, plan.OwnerID, spells)
		if err != nil {
			return result, fmt.Errorf("failed to create spell records: %w", err)
		}
		result.Executed += len(created)
	}

	return result, nil
}
