package convert

import (
	"encoding/json"
	"testing"

	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
	"content-forge/feature/content/parse"
	"content-forge/feature/content/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	return NewSynthesizer("pf2e", nil, validator)
}

func sampleActor() *models.Actor {
	return &models.Actor{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "pf2e",
			Type:          models.RecordActor,
			Slug:          "ancient-red-dragon",
			Name:          "Ancient Red Dragon",
		},
		ActorType: "npc",
		Level:     19,
		Size:      "gargantuan",
		Rarity:    "uncommon",
		Traits:    []string{"dragon", "fire"},
		Languages: []string{"Common", "Draconic"},
		Abilities: models.Abilities{Str: 9, Dex: 5, Con: 8, Int: 5, Wis: 6, Cha: 7},
		Attributes: models.Attributes{
			HP:         models.Stat{Value: 425},
			AC:         models.Stat{Value: 45},
			Speed:      models.Stat{Value: 60, Detail: "fly 180 feet"},
			Perception: models.Perception{Value: 35, Senses: []models.Sense{{Type: "darkvision"}, {Type: "scent", Acuity: "imprecise", Range: 60}}},
			Saves:      models.Saves{Fortitude: 35, Reflex: 32, Will: 35},
			Immunities: []string{"fire", "paralyzed"},
			Weaknesses: []models.Stat{{Value: 20, Detail: "cold"}},
		},
		Skills: []models.Skill{{Name: "Arcana", Value: 30}, {Name: "Intimidation", Value: 37}},
		Strikes: []models.Strike{{
			Name:   "Jaws",
			Bonus:  37,
			Damage: []models.DamageComponent{{Formula: "4d10+17", DamageType: "piercing"}},
			Traits: []string{"fire", "magical", "reach-20"},
		}},
		Actions: []models.ActorAction{{
			Name:        "Breath Weapon",
			ActionType:  models.CostTwoActions,
			Frequency:   "once every 10 minutes",
			Description: "The dragon breathes a blast of flame.",
		}},
		Inventory: []models.InventoryItem{{
			Name:     "Diadem",
			Category: models.ItemEquipment,
			Quantity: 1,
			Level:    12,
		}},
		Spellcasting: []models.Spellcasting{{
			Name:        "Arcane Innate Spells",
			Tradition:   "arcane",
			CastingType: "innate",
			Bonus:       33,
			DC:          41,
			Spells: []models.SpellEntry{
				{Level: 8, Name: "Suggestion"},
				{Level: 5, Name: "Wall of Fire"},
			},
		}},
		Description: "A wyrm of terrible might.",
	}
}

func TestSynthesizer_Action(t *testing.T) {
	synth := newTestSynthesizer(t)

	doc, err := synth.Action(&models.Action{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "pf2e",
			Type:          models.RecordAction,
			Name:          "Breath Weapon",
		},
		ActionType:  models.CostTwoActions,
		Description: "The dragon breathes fire.",
		Traits:      []string{"fire"},
	})
	require.NoError(t, err)

	assert.Equal(t, DocTypeAction, doc.Type)
	system, ok := doc.System.(models.ActionSystem)
	require.True(t, ok)
	// The missing slug is derived from the name before validation.
	assert.Equal(t, "breath-weapon", system.Slug)
	assert.Equal(t, "action", system.ActionType.Value)
	require.NotNil(t, system.Actions.Value)
	assert.Equal(t, 2, *system.Actions.Value)
	assert.Equal(t, "<p>The dragon breathes fire.</p>", system.Description.Value)
}

func TestSynthesizer_SystemMismatch(t *testing.T) {
	synth := newTestSynthesizer(t)

	_, err := synth.Action(&models.Action{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "dnd5e",
			Type:          models.RecordAction,
			Name:          "Dash",
		},
		ActionType: models.CostOneAction,
	})
	assert.ErrorIs(t, err, ErrSystemMismatch)
}

func TestSynthesizer_InvalidRecordRejected(t *testing.T) {
	synth := newTestSynthesizer(t)

	_, err := synth.Item(&models.Item{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "pf2e",
			Type:          models.RecordItem,
			Name:          "Nameless Wonder",
		},
		ItemType: "artifact", // not a canonical category
	})
	var verr *schema.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSynthesizer_ItemPrice(t *testing.T) {
	synth := newTestSynthesizer(t)
	price := 3.5

	doc, err := synth.Item(&models.Item{
		Envelope: models.Envelope{
			SchemaVersion: models.SchemaVersion,
			SystemID:      "pf2e",
			Type:          models.RecordItem,
			Slug:          "potion-of-healing",
			Name:          "Potion of Healing",
		},
		ItemType: models.ItemConsumable,
		Level:    1,
		Price:    &price,
	})
	require.NoError(t, err)

	system, ok := doc.System.(models.ItemSystem)
	require.True(t, ok)
	require.NotNil(t, system.Price)
	assert.Equal(t, models.Coins{GP: 3, SP: 5}, system.Price.Value)
	assert.Equal(t, "consumable", doc.Type)
}

func TestSynthesizer_ActorGraph(t *testing.T) {
	synth := newTestSynthesizer(t)

	doc, err := synth.Actor(sampleActor(), ident.NewAllocator())
	require.NoError(t, err)

	assert.Equal(t, DocTypeNPC, doc.Type)
	require.NotNil(t, doc.Token)
	assert.Equal(t, 4, doc.Token.Width)
	// 1 strike + 2 skills + 1 action + 1 inventory + 1 entry + 2 spells.
	require.Len(t, doc.Items, 8)

	var entryID string
	for _, item := range doc.Items {
		if item.Type == models.EmbeddedSpellcasting {
			entryID = item.ID
		}
	}
	require.NotEmpty(t, entryID)
	for _, item := range doc.Items {
		if item.Type != models.EmbeddedSpell {
			continue
		}
		system, ok := item.System.(models.SpellSystem)
		require.True(t, ok)
		assert.Equal(t, entryID, system.Location.Value)
	}
}

func TestSynthesizer_ActorTypeRoundTrip(t *testing.T) {
	synth := newTestSynthesizer(t)
	norm := NewNormalizer("pf2e")

	for _, actorType := range []string{"npc", "character", "hazard"} {
		rec := sampleActor()
		rec.ActorType = actorType

		doc, err := synth.Actor(rec, ident.NewAllocator())
		require.NoError(t, err)

		assert.Equal(t, actorType, doc.Type)
		assert.Equal(t, defaultIconPrefix+actorType+".svg", doc.Img)
		assert.Equal(t, actorType, norm.Actor(doc).ActorType)
	}
}

func TestSynthesizer_UnknownActorTypeFallsBackToNPC(t *testing.T) {
	synth := newTestSynthesizer(t)

	rec := sampleActor()
	rec.ActorType = "swarm"

	doc, err := synth.Actor(rec, ident.NewAllocator())
	require.NoError(t, err)
	assert.Equal(t, DocTypeNPC, doc.Type)
}

func TestSynthesizer_StableIdentifiers(t *testing.T) {
	synth := newTestSynthesizer(t)
	alloc := ident.NewAllocator()

	first, err := synth.Actor(sampleActor(), alloc)
	require.NoError(t, err)
	second, err := synth.Actor(sampleActor(), alloc)
	require.NoError(t, err)

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}
}

func TestActorRoundTrip(t *testing.T) {
	synth := newTestSynthesizer(t)
	norm := NewNormalizer("pf2e")

	original := sampleActor()
	doc, err := synth.Actor(sampleActor(), ident.NewAllocator())
	require.NoError(t, err)

	got := norm.Actor(doc)

	assert.Equal(t, original.Envelope, got.Envelope)
	assert.Equal(t, original.ActorType, got.ActorType)
	assert.Equal(t, original.Level, got.Level)
	assert.Equal(t, original.Size, got.Size)
	assert.Equal(t, original.Rarity, got.Rarity)
	assert.Equal(t, original.Traits, got.Traits)
	assert.Equal(t, original.Languages, got.Languages)
	assert.Equal(t, original.Abilities, got.Abilities)
	assert.Equal(t, original.Attributes, got.Attributes)
	assert.Equal(t, original.Skills, got.Skills)
	assert.Equal(t, original.Strikes, got.Strikes)
	assert.Equal(t, original.Inventory[0].Name, got.Inventory[0].Name)
	assert.Equal(t, original.Inventory[0].Category, got.Inventory[0].Category)
	assert.Equal(t, original.Description, got.Description)

	// Frequency is re-rendered in canonical prose, equivalent under re-parse.
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "1 per 10 minutes", got.Actions[0].Frequency)
	assert.Equal(t, parse.ParseFrequency(original.Actions[0].Frequency), parse.ParseFrequency(got.Actions[0].Frequency))

	require.Len(t, got.Spellcasting, 1)
	entry := got.Spellcasting[0]
	assert.Equal(t, original.Spellcasting[0].Name, entry.Name)
	assert.Equal(t, original.Spellcasting[0].DC, entry.DC)
	assert.Equal(t, original.Spellcasting[0].Spells, entry.Spells)
}

func TestNormalizer_DropsOrphanSpells(t *testing.T) {
	norm := NewNormalizer("pf2e")

	doc := &models.Document{
		Name: "Cultist",
		Type: DocTypeNPC,
		System: models.ActorSystem{
			Slug: "cultist",
		},
		Items: []models.Embedded{{
			ID:   "spell00000000001",
			Name: "Fear",
			Type: models.EmbeddedSpell,
			System: models.SpellSystem{
				Level:    models.ValueInt{Value: 1},
				Location: models.ValueStr{Value: "missing-entry"},
			},
		}},
	}

	rec := norm.Actor(doc)
	assert.Empty(t, rec.Spellcasting)
}

func TestNormalizer_LenientScalars(t *testing.T) {
	norm := NewNormalizer("pf2e")

	// Legacy documents carry bare scalars instead of {value: X} wrappers.
	doc := &models.Document{
		Name: "Old Relic",
		Type: "equipment",
		System: map[string]any{
			"slug":        "old-relic",
			"level":       float64(3),
			"description": "Ancient.",
			"price":       "12 gp",
		},
	}

	rec := norm.Item(doc)
	assert.Equal(t, 3, rec.Level)
	assert.Equal(t, "Ancient.", rec.Description)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 12.0, *rec.Price, 0.001)
	assert.Equal(t, models.ItemEquipment, rec.ItemType)
}

func TestNormalizer_NumericPriceShapes(t *testing.T) {
	norm := NewNormalizer("pf2e")

	// Documents built in process carry int prices where JSON decoding
	// would have produced float64.
	for _, price := range []any{float64(7.5), 7, int64(7), json.Number("7.5")} {
		doc := &models.Document{
			Name: "Old Relic",
			Type: "equipment",
			System: map[string]any{
				"slug":  "old-relic",
				"price": price,
			},
		}
		rec := norm.Item(doc)
		require.NotNil(t, rec.Price, "price %#v", price)
		assert.GreaterOrEqual(t, *rec.Price, 7.0)
	}
}

func TestItemTypeMapping(t *testing.T) {
	// The narrower host set folds wands into consumables and staves into
	// equipment; the reverse direction maps those onto the generic bucket.
	assert.Equal(t, "consumable", hostItemType[models.ItemWand])
	assert.Equal(t, "equipment", hostItemType[models.ItemStaff])
	assert.Equal(t, models.ItemOther, CanonicalItemType("treasure"))
}

func TestIsPlaceholderImage(t *testing.T) {
	assert.True(t, IsPlaceholderImage(""))
	assert.True(t, IsPlaceholderImage(mysteryIcon))
	assert.True(t, IsPlaceholderImage(defaultIconPrefix+"npc.svg"))
	assert.False(t, IsPlaceholderImage("worlds/art/dragon.webp"))
}
