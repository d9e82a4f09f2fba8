package merge

import (
	"testing"

	"content-forge/feature/content/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseActor() *models.Actor {
	return &models.Actor{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "pf2e",
			Type:          models.RecordActor,
			Slug:          "goblin-warrior",
			Name:          "Goblin Warrior",
		},
		ActorType: "npc",
		Level:     1,
		Size:      "small",
		Attributes: models.Attributes{
			HP:    models.Stat{Value: 15},
			AC:    models.Stat{Value: 16},
			Speed: models.Stat{Value: 25},
		},
		Skills:  []models.Skill{{Name: "Acrobatics", Value: 5}, {Name: "Stealth", Value: 5}},
		Strikes: []models.Strike{{Name: "Dogslicer", Bonus: 8, Damage: []models.DamageComponent{{Formula: "1d6", DamageType: "slashing"}}}},
		Inventory: []models.InventoryItem{
			{Name: "Dogslicer", Category: models.ItemWeapon, Quantity: 1},
			{Name: "Potion of Healing", Category: models.ItemConsumable, Quantity: 2},
		},
		Description: "A sneaky goblin.",
	}
}

func TestSections_AddUpserts(t *testing.T) {
	base := baseActor()
	patch := &models.Actor{
		Skills: []models.Skill{
			{Name: "Stealth", Value: 7},   // existing key, overwritten
			{Name: "Athletics", Value: 4}, // new key, appended
		},
	}

	got := Sections(base, patch, Request{SectionSkills: OpAdd})

	require.Len(t, got.Skills, 3)
	assert.Equal(t, models.Skill{Name: "Acrobatics", Value: 5}, got.Skills[0])
	assert.Equal(t, models.Skill{Name: "Stealth", Value: 7}, got.Skills[1])
	assert.Equal(t, models.Skill{Name: "Athletics", Value: 4}, got.Skills[2])
	// The untargeted sections are untouched.
	assert.Equal(t, base.Strikes, got.Strikes)
	assert.Equal(t, "A sneaky goblin.", got.Description)
}

func TestSections_ReplaceClears(t *testing.T) {
	base := baseActor()
	patch := &models.Actor{
		Inventory: []models.InventoryItem{{Name: "Shortbow", Category: models.ItemWeapon, Quantity: 1}},
	}

	got := Sections(base, patch, Request{SectionInventory: OpReplace})

	require.Len(t, got.Inventory, 1)
	assert.Equal(t, "Shortbow", got.Inventory[0].Name)
}

func TestSections_DoesNotMutateInputs(t *testing.T) {
	base := baseActor()
	patch := &models.Actor{Skills: []models.Skill{{Name: "Stealth", Value: 9}}}

	_ = Sections(base, patch, Request{SectionSkills: OpAdd})

	assert.Equal(t, 5, base.Skills[1].Value)
}

func TestSections_InventoryKeyCollapse(t *testing.T) {
	base := baseActor()
	// Two entries with the same identity collapse to the last one.
	patch := &models.Actor{
		Inventory: []models.InventoryItem{
			{Name: "Potion of Healing", Category: models.ItemConsumable, Quantity: 1},
			{Name: "Potion of Healing", Category: models.ItemConsumable, Quantity: 5},
		},
	}

	got := Sections(base, patch, Request{SectionInventory: OpAdd})

	require.Len(t, got.Inventory, 2)
	assert.Equal(t, 5, got.Inventory[1].Quantity)
}

func TestInventoryKey(t *testing.T) {
	assert.Equal(t, "fancy-slug", InventoryKey(models.InventoryItem{Slug: "fancy-slug", Name: "Whatever"}))
	assert.Equal(t, "potion-of-healing|consumable", InventoryKey(models.InventoryItem{Name: "Potion of Healing", Category: models.ItemConsumable}))
	// The same name in a different category is a different item.
	assert.NotEqual(t,
		InventoryKey(models.InventoryItem{Name: "Staff", Category: models.ItemWeapon}),
		InventoryKey(models.InventoryItem{Name: "Staff", Category: models.ItemEquipment}))
}

func TestSections_CoreKeepsDefenses(t *testing.T) {
	base := baseActor()
	patch := &models.Actor{
		Envelope:  models.Envelope{Name: "Goblin Commando"},
		ActorType: "npc",
		Level:     2,
		Size:      "small",
		Attributes: models.Attributes{
			HP:    models.Stat{Value: 99}, // not part of core
			Speed: models.Stat{Value: 30},
		},
	}

	got := Sections(base, patch, Request{SectionCore: OpReplace})

	assert.Equal(t, "Goblin Commando", got.Name)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 30, got.Attributes.Speed.Value)
	// HP belongs to the defenses section and survives a core replace.
	assert.Equal(t, 15, got.Attributes.HP.Value)
}

func TestSections_SpellcastingAdd(t *testing.T) {
	base := baseActor()
	base.Spellcasting = []models.Spellcasting{{
		Name:        "Primal Spells",
		Tradition:   "primal",
		CastingType: "prepared",
		DC:          17,
		Spells: []models.SpellEntry{
			{Level: 1, Name: "Heal"},
		},
	}}

	patch := &models.Actor{
		Spellcasting: []models.Spellcasting{{
			Name:        "Primal Spells",
			Tradition:   "Primal",
			CastingType: "Prepared",
			DC:          19,
			Spells: []models.SpellEntry{
				{Level: 1, Name: "Heal", Description: "Updated."}, // same key
				{Level: 2, Name: "Barkskin"},
			},
		}},
	}

	got := Sections(base, patch, Request{SectionSpells: OpAdd})

	require.Len(t, got.Spellcasting, 1)
	entry := got.Spellcasting[0]
	assert.Equal(t, 19, entry.DC)
	require.Len(t, entry.Spells, 2)
	assert.Equal(t, "Updated.", entry.Spells[0].Description)
	assert.Equal(t, "Barkskin", entry.Spells[1].Name)
}

func TestEntryKeyCaseInsensitive(t *testing.T) {
	a := EntryKey(models.Spellcasting{Name: "Arcane Spells", Tradition: "Arcane", CastingType: "Innate"})
	b := EntryKey(models.Spellcasting{Name: "arcane spells", Tradition: "arcane", CastingType: "innate"})
	assert.Equal(t, a, b)
}

func TestSpellKey(t *testing.T) {
	assert.Equal(t, SpellKey(models.SpellEntry{Name: "Heal", Level: 1}), SpellKey(models.SpellEntry{Name: "heal ", Level: 1}))
	assert.NotEqual(t, SpellKey(models.SpellEntry{Name: "Heal", Level: 1}), SpellKey(models.SpellEntry{Name: "Heal", Level: 2}))
}

func TestParseSection(t *testing.T) {
	section, err := ParseSection("inventory")
	require.NoError(t, err)
	assert.Equal(t, SectionInventory, section)

	_, err = ParseSection("loot")
	assert.Error(t, err)
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("add")
	require.NoError(t, err)
	assert.Equal(t, OpAdd, op)

	_, err = ParseOp("merge")
	assert.Error(t, err)
}
