package convert

import (
	"encoding/json"
	"fmt"
	"sort"

	"content-forge/core/utils"
	"content-forge/feature/content/models"
	"content-forge/feature/content/parse"
)

// Normalizer converts host document graphs back into canonical records.
// It is deliberately lenient: scalar fields may appear bare or wrapped in
// {value: X}, legacy documents may be missing whole blocks, and unknown
// enumeration values fall back to safe defaults instead of failing.
type Normalizer struct {
	SystemID string
}

// NewNormalizer builds a normalizer emitting records tagged with the
// active game system identifier.
func NewNormalizer(systemID string) *Normalizer {
	return &Normalizer{SystemID: systemID}
}

// Normalize dispatches on the document type tag. Action documents become
// canonical actions, actor documents become canonical actors and anything
// else is read as an item.
func (n *Normalizer) Normalize(doc *models.Document) any {
	switch doc.Type {
	case DocTypeAction:
		return n.Action(doc)
	case DocTypeNPC, "character", "hazard":
		return n.Actor(doc)
	default:
		return n.Item(doc)
	}
}

// Action normalizes a standalone action document.
func (n *Normalizer) Action(doc *models.Document) *models.Action {
	sys := systemMap(doc.System)
	return &models.Action{
		Envelope:     n.envelope(models.RecordAction, sys, doc.Name),
		ActionType:   canonicalActionCost(textAt(sys, "actionType"), intPtrAt(sys, "actions")),
		Description:  PlainText(textAt(sys, "description")),
		Requirements: textAt(sys, "requirements"),
		Traits:       traitList(sys),
		Rarity:       normalizeRarity(textAt(sys, "traits", "rarity")),
	}
}

// Item normalizes a standalone item document.
func (n *Normalizer) Item(doc *models.Document) *models.Item {
	sys := systemMap(doc.System)
	return &models.Item{
		Envelope:    n.envelope(models.RecordItem, sys, doc.Name),
		ItemType:    CanonicalItemType(doc.Type),
		Level:       intAt(sys, "level"),
		Price:       priceDecimal(sys),
		Description: PlainText(textAt(sys, "description")),
		Traits:      traitList(sys),
		Rarity:      normalizeRarity(textAt(sys, "traits", "rarity")),
	}
}

// Actor normalizes an actor document graph including its embedded records.
func (n *Normalizer) Actor(doc *models.Document) *models.Actor {
	sys := systemMap(doc.System)
	rec := &models.Actor{
		Envelope:  n.envelope(models.RecordActor, sys, doc.Name),
		ActorType: doc.Type,
		Level:     intAt(sys, "details", "level"),
		Size:      canonicalSize(textAt(sys, "traits", "size")),
		Rarity:    normalizeRarity(textAt(sys, "traits", "rarity")),
		Traits:    traitList(sys),
		Languages: languageList(sys),
		Abilities: models.Abilities{
			Str: intAt(sys, "abilities", "str"),
			Dex: intAt(sys, "abilities", "dex"),
			Con: intAt(sys, "abilities", "con"),
			Int: intAt(sys, "abilities", "int"),
			Wis: intAt(sys, "abilities", "wis"),
			Cha: intAt(sys, "abilities", "cha"),
		},
		Attributes: models.Attributes{
			HP: models.Stat{
				Value:  intAt(sys, "attributes", "hp"),
				Detail: textAt(sys, "attributes", "hp", "details"),
			},
			AC: models.Stat{
				Value:  intAt(sys, "attributes", "ac"),
				Detail: textAt(sys, "attributes", "ac", "details"),
			},
			Speed: models.Stat{
				Value:  intAt(sys, "attributes", "speed"),
				Detail: textAt(sys, "attributes", "speed", "details"),
			},
			Perception: models.Perception{
				Value:  intAt(sys, "attributes", "perception"),
				Detail: textAt(sys, "attributes", "perception", "details"),
				Senses: senseList(fieldAt(sys, "attributes", "perception", "senses")),
			},
			Saves: models.Saves{
				Fortitude: intAt(sys, "saves", "fortitude"),
				Reflex:    intAt(sys, "saves", "reflex"),
				Will:      intAt(sys, "saves", "will"),
			},
			Immunities:  immunityTypes(fieldAt(sys, "attributes", "immunities")),
			Weaknesses:  iwrStats(fieldAt(sys, "attributes", "weaknesses")),
			Resistances: iwrStats(fieldAt(sys, "attributes", "resistances")),
		},
		Description: PlainText(textAt(sys, "details", "publicNotes")),
	}

	n.normalizeEmbedded(rec, doc.Items)
	return rec
}

// normalizeEmbedded folds the document's embedded records into the actor's
// canonical sections. Spells are resolved to their owning spellcasting
// entry through the location field; spells whose entry cannot be resolved
// are dropped.
func (n *Normalizer) normalizeEmbedded(rec *models.Actor, items []models.Embedded) {
	entryIndex := map[string]int{}

	for _, item := range items {
		sys := systemMap(item.System)
		switch item.Type {
		case models.EmbeddedMelee:
			effects := utils.ToStringSlice(unwrap(fieldAt(sys, "attackEffects")))
			if len(effects) == 0 {
				effects = nil
			}
			rec.Strikes = append(rec.Strikes, models.Strike{
				Name:    item.Name,
				Bonus:   intAt(sys, "bonus"),
				Damage:  damageComponents(fieldAt(sys, "damageRolls")),
				Traits:  traitList(sys),
				Effects: effects,
			})
		case models.EmbeddedLore:
			rec.Skills = append(rec.Skills, models.Skill{
				Name:  item.Name,
				Value: intAt(sys, "mod"),
			})
		case models.EmbeddedAction:
			rec.Actions = append(rec.Actions, models.ActorAction{
				Name:         item.Name,
				ActionType:   canonicalActionCost(textAt(sys, "actionType"), intPtrAt(sys, "actions")),
				Traits:       traitList(sys),
				Trigger:      textAt(sys, "trigger"),
				Frequency:    frequencyText(fieldAt(sys, "frequency")),
				Requirements: textAt(sys, "requirements"),
				Description:  PlainText(textAt(sys, "description")),
			})
		case models.EmbeddedSpellcasting:
			entryIndex[item.ID] = len(rec.Spellcasting)
			rec.Spellcasting = append(rec.Spellcasting, models.Spellcasting{
				Name:        item.Name,
				Tradition:   textAt(sys, "tradition"),
				CastingType: textAt(sys, "prepared"),
				Bonus:       intAt(sys, "spelldc"),
				DC:          intAt(sys, "spelldc", "dc"),
			})
		case models.EmbeddedSpell:
			// Resolved in the second pass below.
		default:
			quantity := intAt(sys, "quantity")
			if quantity < 1 {
				quantity = 1
			}
			rec.Inventory = append(rec.Inventory, models.InventoryItem{
				Slug:        textAt(sys, "slug"),
				Name:        item.Name,
				Category:    CanonicalItemType(item.Type),
				Quantity:    quantity,
				Level:       intAt(sys, "level"),
				Description: PlainText(textAt(sys, "description")),
			})
		}
	}

	for _, item := range items {
		if item.Type != models.EmbeddedSpell {
			continue
		}
		sys := systemMap(item.System)
		idx, ok := entryIndex[textAt(sys, "location")]
		if !ok {
			continue
		}
		rec.Spellcasting[idx].Spells = append(rec.Spellcasting[idx].Spells, models.SpellEntry{
			Level:       intAt(sys, "level"),
			Name:        item.Name,
			Description: PlainText(textAt(sys, "description")),
		})
	}
}

func (n *Normalizer) envelope(t models.RecordType, sys map[string]any, name string) models.Envelope {
	env := models.Envelope{
		SchemaVersion: models.SchemaVersion,
		SystemID:      n.SystemID,
		Type:          t,
		Slug:          textAt(sys, "slug"),
		Name:          name,
	}
	env.EnsureSlug()
	return env
}

// SystemText reads a string field from an untyped system object,
// unwrapping the host's scalar wrappers along the way.
func SystemText(system any, path ...string) string {
	return textAt(systemMap(system), path...)
}

// SystemInt reads an integer field from an untyped system object.
func SystemInt(system any, path ...string) int {
	return intAt(systemMap(system), path...)
}

// systemMap coerces an untyped system object into a navigable map. Typed
// structs produced by the synthesizer take the JSON round trip.
func systemMap(system any) map[string]any {
	if m, ok := system.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(system)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// fieldAt walks nested maps along path. A missing or non-map intermediate
// yields nil.
func fieldAt(m map[string]any, path ...string) any {
	cur := any(m)
	for _, key := range path {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[key]
	}
	return cur
}

// unwrap peels the host's {value: X} and {mod: X} scalar wrappers; bare
// values pass through.
func unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if inner, exists := m["value"]; exists {
		return inner
	}
	if inner, exists := m["mod"]; exists {
		return inner
	}
	return v
}

func textAt(m map[string]any, path ...string) string {
	return strOf(unwrap(fieldAt(m, path...)))
}

// strOf stringifies a decoded value, reading nil as empty.
func strOf(v any) string {
	if v == nil {
		return ""
	}
	return utils.ToString(v)
}

func intAt(m map[string]any, path ...string) int {
	v := unwrap(fieldAt(m, path...))
	if v == nil {
		return 0
	}
	return utils.ToInt(v)
}

func intPtrAt(m map[string]any, path ...string) *int {
	v := unwrap(fieldAt(m, path...))
	if v == nil {
		return nil
	}
	i := utils.ToInt(v)
	return &i
}

// traitList merges the recognized trait values with the overflow custom
// string into one de-duplicated list.
func traitList(sys map[string]any) []string {
	values := utils.ToStringSlice(fieldAt(sys, "traits", "value"))
	if custom := textAt(sys, "traits", "custom"); custom != "" {
		values = append(values, custom)
	}
	return parse.SplitList(values)
}

// languageList accepts the wrapped array shape as well as legacy
// delimiter-separated strings.
func languageList(sys map[string]any) []string {
	raw := unwrap(fieldAt(sys, "traits", "languages"))
	if raw == nil {
		return nil
	}
	if s, ok := raw.(string); ok {
		return parse.SplitList([]string{s})
	}
	return parse.SplitList(utils.ToStringSlice(raw))
}

// priceDecimal reads a price as either the structured denomination shape
// or free text. Absent and unparseable prices read as nil, never zero.
func priceDecimal(sys map[string]any) *float64 {
	raw := fieldAt(sys, "price")
	if raw == nil {
		return nil
	}
	raw = unwrap(raw)
	switch v := raw.(type) {
	case map[string]any:
		total := parse.CoinsToDecimal(models.Coins{
			PP: utils.ToInt(v["pp"]),
			GP: utils.ToInt(v["gp"]),
			SP: utils.ToInt(v["sp"]),
			CP: utils.ToInt(v["cp"]),
		})
		return &total
	case string:
		return parse.ParsePrice(v)
	case float64, int, int64, json.Number:
		total := parse.CoinsToDecimal(parse.DecimalToCoins(utils.ToFloat64(v)))
		return &total
	default:
		return nil
	}
}

// senseList accepts structured sense records, a list of free-text entries,
// or one comma-separated string.
func senseList(raw any) []models.Sense {
	if s, ok := raw.(string); ok {
		return parse.ParseSenses(s)
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []models.Sense
	for _, entry := range entries {
		switch v := entry.(type) {
		case map[string]any:
			sense := models.Sense{
				Type:   strOf(v["type"]),
				Acuity: strOf(v["acuity"]),
				Range:  utils.ToInt(v["range"]),
			}
			if sense.Type != "" {
				out = append(out, sense)
			}
		case string:
			if sense := parse.ParseSense(v); sense != nil {
				out = append(out, *sense)
			}
		}
	}
	return out
}

// immunityTypes flattens immunity entries to their type slugs.
func immunityTypes(raw any) []string {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			if t := strOf(m["type"]); t != "" {
				out = append(out, t)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// iwrStats reads weakness/resistance entries as value-plus-detail stats.
func iwrStats(raw any) []models.Stat {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]models.Stat, 0, len(entries))
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, models.Stat{
				Value:  utils.ToInt(m["value"]),
				Detail: strOf(m["type"]),
			})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// damageComponents reads a strike's damage roll map in deterministic key
// order. Roll keys are opaque identifiers, so sorting keeps repeated
// normalizations stable.
func damageComponents(raw any) []models.DamageComponent {
	rolls, ok := raw.(map[string]any)
	if !ok || len(rolls) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rolls))
	for key := range rolls {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]models.DamageComponent, 0, len(keys))
	for _, key := range keys {
		if m, ok := rolls[key].(map[string]any); ok {
			out = append(out, models.DamageComponent{
				Formula:    strOf(m["damage"]),
				DamageType: strOf(m["damageType"]),
			})
		}
	}
	return out
}

// frequencyText renders a structured frequency back to the canonical prose
// form, chosen so the frequency parser reads it back unchanged.
func frequencyText(raw any) string {
	m, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	phrase := perPhrase(strOf(m["per"]))
	if phrase == "" {
		return ""
	}
	max := utils.ToInt(m["max"])
	if max < 1 {
		max = 1
	}
	return fmt.Sprintf("%d per %s", max, phrase)
}

func perPhrase(per string) string {
	switch per {
	case parse.PerRound:
		return "round"
	case parse.PerTurn:
		return "turn"
	case parse.PerMinute:
		return "minute"
	case parse.PerTenMinute:
		return "10 minutes"
	case parse.PerHour:
		return "hour"
	case parse.PerDay:
		return "day"
	}
	return ""
}
