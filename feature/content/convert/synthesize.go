package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
	"content-forge/feature/content/parse"
	"content-forge/feature/content/schema"
)

// ErrSystemMismatch is returned when a canonical record targets a
// different game system than the active one. It is a fatal precondition,
// never retried.
var ErrSystemMismatch = errors.New("canonical record targets a different game system")

// Synthesizer converts validated canonical records into full document
// graphs. It is pure with respect to the host store: it only returns data,
// and the caller decides whether to create, replace, or merge.
type Synthesizer struct {
	// ActiveSystem is the host's current system identifier. Records
	// declaring any other systemId are rejected.
	ActiveSystem string
	// Traits is the host's allowed-trait set. Empty means unrestricted.
	Traits parse.TraitSet

	validator *schema.Validator
}

// NewSynthesizer creates a synthesizer for the active system.
func NewSynthesizer(activeSystem string, traits parse.TraitSet, validator *schema.Validator) *Synthesizer {
	return &Synthesizer{
		ActiveSystem: activeSystem,
		Traits:       traits,
		validator:    validator,
	}
}

// checkEnvelope enforces the synthesis preconditions shared by all record
// kinds: structural validity and system identity.
func (s *Synthesizer) checkEnvelope(env *models.Envelope, record any) error {
	if env.SystemID != s.ActiveSystem {
		return fmt.Errorf("%w: record targets %q, active system is %q",
			ErrSystemMismatch, env.SystemID, s.ActiveSystem)
	}
	env.EnsureSlug()
	if s.validator != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record for validation: %w", err)
		}
		if err := s.validator.Validate(raw); err != nil {
			return err
		}
	}
	return nil
}

// traitsBlock sanitizes a trait list into the host trait wrapper.
func (s *Synthesizer) traitsBlock(traits []string, rarity string) models.TraitsBlock {
	known, extra := parse.PartitionTraits(traits, s.Traits)
	block := models.TraitsBlock{
		Value:  known,
		Rarity: normalizeRarity(rarity),
	}
	if len(extra) > 0 {
		block.Custom = strings.Join(extra, ", ")
	}
	return block
}

// Action synthesizes a standalone action document.
func (s *Synthesizer) Action(rec *models.Action) (*models.Document, error) {
	if err := s.checkEnvelope(&rec.Envelope, rec); err != nil {
		return nil, err
	}

	actionType, actions := hostActionType(rec.ActionType)
	return &models.Document{
		Name: rec.Name,
		Type: DocTypeAction,
		System: models.ActionSystem{
			Slug:         rec.Slug,
			ActionType:   models.ValueStr{Value: actionType},
			Actions:      models.ValueIntPtr{Value: actions},
			Description:  models.ValueStr{Value: parse.RichText(rec.Description)},
			Requirements: models.ValueStr{Value: rec.Requirements},
			Traits:       s.traitsBlock(rec.Traits, rec.Rarity),
		},
	}, nil
}

// Item synthesizes a standalone item document.
func (s *Synthesizer) Item(rec *models.Item) (*models.Document, error) {
	if err := s.checkEnvelope(&rec.Envelope, rec); err != nil {
		return nil, err
	}

	system := models.ItemSystem{
		Slug:        rec.Slug,
		Description: models.ValueStr{Value: parse.RichText(rec.Description)},
		Level:       models.ValueInt{Value: rec.Level},
		Quantity:    1,
		Traits:      s.traitsBlock(rec.Traits, rec.Rarity),
	}
	if rec.Price != nil {
		system.Price = &models.PriceBlock{Value: parse.DecimalToCoins(*rec.Price)}
	}
	return &models.Document{
		Name:   rec.Name,
		Type:   hostItemType[rec.ItemType],
		System: system,
	}, nil
}

// Actor synthesizes a full actor document graph: the root record plus one
// embedded record per strike, skill, action, inventory item, spellcasting
// entry and spell. Spellcasting entry identifiers are allocated before the
// spells that reference them through the location field.
func (s *Synthesizer) Actor(rec *models.Actor, alloc *ident.Allocator) (*models.Document, error) {
	if err := s.checkEnvelope(&rec.Envelope, rec); err != nil {
		return nil, err
	}

	actorType := hostActorType(rec.ActorType)
	doc := &models.Document{
		Name:   rec.Name,
		Type:   actorType,
		Img:    defaultPortrait(actorType),
		System: s.actorSystem(rec),
	}
	footprint := tokenFootprint(rec.Size)
	doc.Token = &footprint

	doc.Items = append(doc.Items, s.StrikeRecords(rec, alloc)...)
	doc.Items = append(doc.Items, s.SkillRecords(rec, alloc)...)
	doc.Items = append(doc.Items, s.ActionRecords(rec, alloc)...)
	doc.Items = append(doc.Items, s.InventoryRecords(rec, alloc)...)
	doc.Items = append(doc.Items, s.SpellcastingRecords(rec, alloc)...)
	return doc, nil
}

// actorSystem builds the root system object via explicit per-field mapping.
func (s *Synthesizer) actorSystem(rec *models.Actor) models.ActorSystem {
	attrs := rec.Attributes
	return models.ActorSystem{
		Slug: rec.Slug,
		Abilities: models.DocAbilities{
			Str: models.AbilityMod{Mod: rec.Abilities.Str},
			Dex: models.AbilityMod{Mod: rec.Abilities.Dex},
			Con: models.AbilityMod{Mod: rec.Abilities.Con},
			Int: models.AbilityMod{Mod: rec.Abilities.Int},
			Wis: models.AbilityMod{Mod: rec.Abilities.Wis},
			Cha: models.AbilityMod{Mod: rec.Abilities.Cha},
		},
		Attributes: models.DocAttributes{
			HP: models.HPBlock{
				Value:   attrs.HP.Value,
				Max:     attrs.HP.Value,
				Details: attrs.HP.Detail,
			},
			AC:    models.ACBlock{Value: attrs.AC.Value, Details: attrs.AC.Detail},
			Speed: models.SpeedBlock{Value: attrs.Speed.Value, Details: attrs.Speed.Detail},
			Perception: models.PerceptionBlock{
				Value:   attrs.Perception.Value,
				Details: attrs.Perception.Detail,
				Senses:  docSenses(attrs.Perception.Senses),
			},
			Immunities:  immunityEntries(attrs.Immunities),
			Weaknesses:  iwrEntries(attrs.Weaknesses),
			Resistances: iwrEntries(attrs.Resistances),
		},
		Saves: models.DocSaves{
			Fortitude: models.ValueInt{Value: attrs.Saves.Fortitude},
			Reflex:    models.ValueInt{Value: attrs.Saves.Reflex},
			Will:      models.ValueInt{Value: attrs.Saves.Will},
		},
		Details: models.DocDetails{
			Level:       models.ValueInt{Value: rec.Level},
			PublicNotes: parse.RichText(rec.Description),
		},
		Traits: models.DocTraits{
			Value:     firstPartition(rec.Traits, s.Traits),
			Rarity:    normalizeRarity(rec.Rarity),
			Size:      models.ValueStr{Value: hostSize(rec.Size)},
			Languages: models.ValueStrings{Value: parse.SplitList(rec.Languages)},
		},
	}
}

// firstPartition returns just the recognized traits.
func firstPartition(traits []string, allowed parse.TraitSet) []string {
	known, _ := parse.PartitionTraits(traits, allowed)
	return known
}

func docSenses(senses []models.Sense) []models.DocSense {
	out := make([]models.DocSense, 0, len(senses))
	for _, sense := range senses {
		out = append(out, models.DocSense{
			Type:   sense.Type,
			Acuity: sense.Acuity,
			Range:  sense.Range,
		})
	}
	return out
}

func immunityEntries(types []string) []models.IWREntry {
	out := make([]models.IWREntry, 0, len(types))
	for _, t := range types {
		out = append(out, models.IWREntry{Type: models.Sluggify(t)})
	}
	return out
}

func iwrEntries(stats []models.Stat) []models.IWREntry {
	out := make([]models.IWREntry, 0, len(stats))
	for _, stat := range stats {
		out = append(out, models.IWREntry{
			Type:  models.Sluggify(stat.Detail),
			Value: stat.Value,
		})
	}
	return out
}

// StrikeRecords synthesizes one melee record per strike.
func (s *Synthesizer) StrikeRecords(rec *models.Actor, alloc *ident.Allocator) []models.Embedded {
	out := make([]models.Embedded, 0, len(rec.Strikes))
	for i, strike := range rec.Strikes {
		key := positionKey(rec.Slug, "strike", i)
		rolls := make(map[string]models.DamageRoll, len(strike.Damage))
		for j, dmg := range strike.Damage {
			rollKey := alloc.IDFor(fmt.Sprintf("%s|damage|%d", key, j))
			rolls[rollKey] = models.DamageRoll{
				Damage:     dmg.Formula,
				DamageType: dmg.DamageType,
			}
		}
		out = append(out, models.Embedded{
			ID:   alloc.IDFor(key),
			Name: strike.Name,
			Type: models.EmbeddedMelee,
			Sort: i,
			System: models.StrikeSystem{
				Slug:        models.Sluggify(strike.Name),
				Bonus:       models.ValueInt{Value: strike.Bonus},
				DamageRolls: rolls,
				Effects:     models.ValueStrings{Value: append([]string{}, strike.Effects...)},
				Traits:      s.traitsBlock(strike.Traits, ""),
			},
		})
	}
	return out
}

// SkillRecords synthesizes one lore record per skill.
func (s *Synthesizer) SkillRecords(rec *models.Actor, alloc *ident.Allocator) []models.Embedded {
	out := make([]models.Embedded, 0, len(rec.Skills))
	for i, skill := range rec.Skills {
		out = append(out, models.Embedded{
			ID:     alloc.IDFor(positionKey(rec.Slug, "skill", i)),
			Name:   skill.Name,
			Type:   models.EmbeddedLore,
			Sort:   i,
			System: models.LoreSystem{Mod: models.ValueInt{Value: skill.Value}},
		})
	}
	return out
}

// ActionRecords synthesizes one action record per actor ability. Frequency
// text that cannot be parsed results in an omitted frequency field, never
// a zeroed one.
func (s *Synthesizer) ActionRecords(rec *models.Actor, alloc *ident.Allocator) []models.Embedded {
	out := make([]models.Embedded, 0, len(rec.Actions))
	for i, action := range rec.Actions {
		actionType, actions := hostActionType(action.ActionType)
		system := models.ActionSystem{
			Slug:         models.Sluggify(action.Name),
			ActionType:   models.ValueStr{Value: actionType},
			Actions:      models.ValueIntPtr{Value: actions},
			Description:  models.ValueStr{Value: parse.RichText(action.Description)},
			Requirements: models.ValueStr{Value: action.Requirements},
			Trigger:      models.ValueStr{Value: action.Trigger},
			Traits:       s.traitsBlock(action.Traits, ""),
		}
		if freq := parse.ParseFrequency(action.Frequency); freq != nil {
			system.Frequency = &models.DocFrequency{Max: freq.Max, Per: freq.Per}
		}
		out = append(out, models.Embedded{
			ID:     alloc.IDFor(positionKey(rec.Slug, "action", i)),
			Name:   action.Name,
			Type:   models.EmbeddedAction,
			Sort:   i,
			System: system,
		})
	}
	return out
}

// InventoryRecords synthesizes one item record per inventory entry.
func (s *Synthesizer) InventoryRecords(rec *models.Actor, alloc *ident.Allocator) []models.Embedded {
	out := make([]models.Embedded, 0, len(rec.Inventory))
	for i, item := range rec.Inventory {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		slug := item.Slug
		if slug == "" {
			slug = models.Sluggify(item.Name)
		}
		out = append(out, models.Embedded{
			ID:   alloc.IDFor(positionKey(rec.Slug, "inventory", i)),
			Name: item.Name,
			Type: hostItemType[item.Category],
			Sort: i,
			System: models.ItemSystem{
				Slug:        slug,
				Description: models.ValueStr{Value: parse.RichText(item.Description)},
				Level:       models.ValueInt{Value: item.Level},
				Quantity:    quantity,
				Traits:      s.traitsBlock(nil, ""),
			},
		})
	}
	return out
}

// SpellcastingRecords synthesizes spellcasting entries followed by their
// spells. Entry identifiers are generated first so each spell can
// reference its owning entry through the location field.
func (s *Synthesizer) SpellcastingRecords(rec *models.Actor, alloc *ident.Allocator) []models.Embedded {
	var out []models.Embedded
	for i, entry := range rec.Spellcasting {
		entryID := alloc.IDFor(positionKey(rec.Slug, "spellcasting", i))
		out = append(out, models.Embedded{
			ID:   entryID,
			Name: entry.Name,
			Type: models.EmbeddedSpellcasting,
			Sort: i,
			System: models.SpellcastingSystem{
				Tradition: models.ValueStr{Value: entry.Tradition},
				Prepared:  models.ValueStr{Value: entry.CastingType},
				SpellDC:   models.SpellDC{Value: entry.Bonus, DC: entry.DC},
			},
		})
		for j, spell := range entry.Spells {
			out = append(out, models.Embedded{
				ID:   alloc.IDFor(positionKey(rec.Slug, fmt.Sprintf("spellcasting.%d.spell", i), j)),
				Name: spell.Name,
				Type: models.EmbeddedSpell,
				Sort: j,
				System: models.SpellSystem{
					Slug:        models.Sluggify(spell.Name),
					Level:       models.ValueInt{Value: spell.Level},
					Description: models.ValueStr{Value: parse.RichText(spell.Description)},
					Location:    models.ValueStr{Value: entryID},
					Traits:      s.traitsBlock(nil, ""),
				},
			})
		}
	}
	return out
}

// positionKey builds the content-position string identifiers are keyed by.
func positionKey(owner, section string, index int) string {
	return fmt.Sprintf("%s|%s|%d", owner, section, index)
}
