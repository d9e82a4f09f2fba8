package merge

import (
	"fmt"
	"strconv"
	"strings"

	"content-forge/feature/content/models"
)

// Section identifies one independently mergeable slice of an actor record.
type Section string

const (
	SectionCore      Section = "core"
	SectionDefenses  Section = "defenses"
	SectionSkills    Section = "skills"
	SectionStrikes   Section = "strikes"
	SectionActions   Section = "actions"
	SectionInventory Section = "inventory"
	SectionSpells    Section = "spells"
	SectionNarrative Section = "narrative"
)

// sectionOrder fixes the application order so merges are deterministic.
var sectionOrder = []Section{
	SectionCore,
	SectionDefenses,
	SectionSkills,
	SectionStrikes,
	SectionActions,
	SectionInventory,
	SectionSpells,
	SectionNarrative,
}

// Op is the per-section merge operation.
type Op string

const (
	// OpReplace wholly substitutes the section with the patch value.
	OpReplace Op = "replace"
	// OpAdd upserts patch entries into the section by their dedup key.
	OpAdd Op = "add"
)

// Request maps each targeted section to its operation. Sections absent
// from the request are preserved untouched; the caller guarantees the
// patch carries no values for them.
type Request map[Section]Op

// ParseSection converts a wire section name into a Section.
func ParseSection(name string) (Section, error) {
	section := Section(name)
	for _, known := range sectionOrder {
		if section == known {
			return section, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// ParseOp converts a wire operation name into an Op.
func ParseOp(name string) (Op, error) {
	switch op := Op(name); op {
	case OpReplace, OpAdd:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q", name)
	}
}

// Sections merges a patch actor into a base actor for the requested
// sections and returns the merged record. Neither input is mutated.
//
// The scalar sections (core, defenses, narrative) treat add the same as
// replace. The list sections dedup by key: skills, strikes and actions by
// slugged name; inventory by slug or slugged-name-plus-category;
// spellcasting entries by (slugged name, tradition, casting type) with
// each entry's spell list merged by (level, slugged name). A key collision
// overwrites the existing entry with the incoming one, never duplicates.
func Sections(base, patch *models.Actor, req Request) *models.Actor {
	out := *base
	out.Strikes = append([]models.Strike(nil), base.Strikes...)
	out.Skills = append([]models.Skill(nil), base.Skills...)
	out.Actions = append([]models.ActorAction(nil), base.Actions...)
	out.Inventory = append([]models.InventoryItem(nil), base.Inventory...)
	out.Spellcasting = copySpellcasting(base.Spellcasting)

	for _, section := range sectionOrder {
		op, selected := req[section]
		if !selected {
			continue
		}
		switch section {
		case SectionCore:
			applyCore(&out, patch)
		case SectionDefenses:
			applyDefenses(&out, patch)
		case SectionSkills:
			out.Skills = mergeSkills(out.Skills, patch.Skills, op)
		case SectionStrikes:
			out.Strikes = mergeStrikes(out.Strikes, patch.Strikes, op)
		case SectionActions:
			out.Actions = mergeActions(out.Actions, patch.Actions, op)
		case SectionInventory:
			out.Inventory = mergeInventory(out.Inventory, patch.Inventory, op)
		case SectionSpells:
			out.Spellcasting = mergeSpellcasting(out.Spellcasting, patch.Spellcasting, op)
		case SectionNarrative:
			out.Description = patch.Description
		}
	}
	return &out
}

func copySpellcasting(entries []models.Spellcasting) []models.Spellcasting {
	out := make([]models.Spellcasting, len(entries))
	for i, entry := range entries {
		out[i] = entry
		out[i].Spells = append([]models.SpellEntry(nil), entry.Spells...)
	}
	return out
}

// applyCore replaces the actor's identity and statistic fields. Perception
// and speed travel with core; the defensive block has its own section.
func applyCore(out, patch *models.Actor) {
	out.Name = patch.Name
	out.ActorType = patch.ActorType
	out.Level = patch.Level
	out.Size = patch.Size
	out.Rarity = patch.Rarity
	out.Traits = append([]string(nil), patch.Traits...)
	out.Languages = append([]string(nil), patch.Languages...)
	out.Abilities = patch.Abilities
	out.Attributes.Speed = patch.Attributes.Speed
	out.Attributes.Perception = patch.Attributes.Perception
}

func applyDefenses(out, patch *models.Actor) {
	out.Attributes.HP = patch.Attributes.HP
	out.Attributes.AC = patch.Attributes.AC
	out.Attributes.Saves = patch.Attributes.Saves
	out.Attributes.Immunities = append([]string(nil), patch.Attributes.Immunities...)
	out.Attributes.Weaknesses = append([]models.Stat(nil), patch.Attributes.Weaknesses...)
	out.Attributes.Resistances = append([]models.Stat(nil), patch.Attributes.Resistances...)
}

func mergeSkills(base, patch []models.Skill, op Op) []models.Skill {
	if op == OpReplace {
		return append([]models.Skill(nil), patch...)
	}
	index := map[string]int{}
	for i, skill := range base {
		index[models.Sluggify(skill.Name)] = i
	}
	for _, skill := range patch {
		if i, ok := index[models.Sluggify(skill.Name)]; ok {
			base[i] = skill
			continue
		}
		index[models.Sluggify(skill.Name)] = len(base)
		base = append(base, skill)
	}
	return base
}

func mergeStrikes(base, patch []models.Strike, op Op) []models.Strike {
	if op == OpReplace {
		return append([]models.Strike(nil), patch...)
	}
	index := map[string]int{}
	for i, strike := range base {
		index[models.Sluggify(strike.Name)] = i
	}
	for _, strike := range patch {
		if i, ok := index[models.Sluggify(strike.Name)]; ok {
			base[i] = strike
			continue
		}
		index[models.Sluggify(strike.Name)] = len(base)
		base = append(base, strike)
	}
	return base
}

func mergeActions(base, patch []models.ActorAction, op Op) []models.ActorAction {
	if op == OpReplace {
		return append([]models.ActorAction(nil), patch...)
	}
	index := map[string]int{}
	for i, action := range base {
		index[models.Sluggify(action.Name)] = i
	}
	for _, action := range patch {
		if i, ok := index[models.Sluggify(action.Name)]; ok {
			base[i] = action
			continue
		}
		index[models.Sluggify(action.Name)] = len(base)
		base = append(base, action)
	}
	return base
}

// InventoryKey is the composite dedup key for inventory entries: the
// explicit slug when present, otherwise slugged name plus category.
func InventoryKey(item models.InventoryItem) string {
	if item.Slug != "" {
		return item.Slug
	}
	return models.Sluggify(item.Name) + "|" + string(item.Category)
}

func mergeInventory(base, patch []models.InventoryItem, op Op) []models.InventoryItem {
	if op == OpReplace {
		return append([]models.InventoryItem(nil), patch...)
	}
	index := map[string]int{}
	for i, item := range base {
		index[InventoryKey(item)] = i
	}
	for _, item := range patch {
		if i, ok := index[InventoryKey(item)]; ok {
			base[i] = item
			continue
		}
		index[InventoryKey(item)] = len(base)
		base = append(base, item)
	}
	return base
}

// EntryKey is the dedup key for spellcasting entries.
func EntryKey(entry models.Spellcasting) string {
	return models.Sluggify(entry.Name) + "|" +
		strings.ToLower(strings.TrimSpace(entry.Tradition)) + "|" +
		strings.ToLower(strings.TrimSpace(entry.CastingType))
}

// SpellKey is the dedup key for spells inside one entry.
func SpellKey(spell models.SpellEntry) string {
	return strings.ToLower(strings.TrimSpace(spell.Name)) + "|" + strconv.Itoa(spell.Level)
}

func mergeSpellcasting(base, patch []models.Spellcasting, op Op) []models.Spellcasting {
	if op == OpReplace {
		return copySpellcasting(patch)
	}
	index := map[string]int{}
	for i, entry := range base {
		index[EntryKey(entry)] = i
	}
	for _, entry := range patch {
		i, ok := index[EntryKey(entry)]
		if !ok {
			index[EntryKey(entry)] = len(base)
			base = append(base, entry)
			base[len(base)-1].Spells = append([]models.SpellEntry(nil), entry.Spells...)
			continue
		}
		merged := entry
		merged.Spells = mergeSpells(base[i].Spells, entry.Spells)
		base[i] = merged
	}
	return base
}

// mergeSpells upserts incoming spells by (level, name). Two spells at the
// same key collapse to the later one.
func mergeSpells(base, patch []models.SpellEntry) []models.SpellEntry {
	out := append([]models.SpellEntry(nil), base...)
	index := map[string]int{}
	for i, spell := range out {
		index[SpellKey(spell)] = i
	}
	for _, spell := range patch {
		if i, ok := index[SpellKey(spell)]; ok {
			out[i] = spell
			continue
		}
		index[SpellKey(spell)] = len(out)
		out = append(out, spell)
	}
	return out
}
