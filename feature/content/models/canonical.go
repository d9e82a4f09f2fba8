package models

import (
	"regexp"
	"strings"
)

// RecordType identifies the kind of canonical record.
type RecordType string

const (
	RecordAction RecordType = "action"
	RecordItem   RecordType = "item"
	RecordActor  RecordType = "actor"
)

// SchemaVersion is the current canonical schema version. Records carrying a
// different version are rejected by the validator.
const SchemaVersion = 1

// Envelope holds the versioned, self-describing header shared by every
// canonical record. It is embedded in Action, Item and Actor.
type Envelope struct {
	// SchemaVersion is the monotonically increasing schema version.
	SchemaVersion int `json:"schema_version"`
	// SystemID tags the target game system. A mismatch with the active
	// system is fatal to synthesis.
	SystemID string `json:"systemId"`
	// Type discriminates the record kind (action, item, actor).
	Type RecordType `json:"type"`
	// Slug is the normalized identity key used for de-duplication.
	Slug string `json:"slug"`
	// Name is the display name.
	Name string `json:"name"`
}

// ActionCost enumerates canonical action costs.
type ActionCost string

const (
	CostOneAction    ActionCost = "one"
	CostTwoActions   ActionCost = "two"
	CostThreeActions ActionCost = "three"
	CostFree         ActionCost = "free"
	CostReaction     ActionCost = "reaction"
)

// ItemType enumerates canonical item categories.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemEquipment  ItemType = "equipment"
	ItemConsumable ItemType = "consumable"
	ItemFeat       ItemType = "feat"
	ItemSpell      ItemType = "spell"
	ItemWand       ItemType = "wand"
	ItemStaff      ItemType = "staff"
	ItemOther      ItemType = "other"
)

// Action is a canonical standalone action record.
type Action struct {
	Envelope
	ActionType   ActionCost `json:"actionType"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Traits       []string   `json:"traits,omitempty"`
	Rarity       string     `json:"rarity,omitempty"`
}

// Item is a canonical item record. Price is a single decimal in gold units;
// nil means "no known price", which is distinct from zero.
type Item struct {
	Envelope
	ItemType    ItemType `json:"itemType"`
	Level       int      `json:"level"`
	Price       *float64 `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Traits      []string `json:"traits,omitempty"`
	Rarity      string   `json:"rarity,omitempty"`
}

// Abilities holds the six ability modifiers.
type Abilities struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// Stat is a numeric value with optional free-text detail.
type Stat struct {
	Value  int    `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// Sense is a parsed sense entry. Range is expressed in feet.
type Sense struct {
	Type   string `json:"type"`
	Acuity string `json:"acuity,omitempty"`
	Range  int    `json:"range,omitempty"`
}

// Perception couples the perception modifier with its parsed senses.
type Perception struct {
	Value  int     `json:"value"`
	Detail string  `json:"detail,omitempty"`
	Senses []Sense `json:"senses,omitempty"`
}

// Saves holds the three saving throw modifiers.
type Saves struct {
	Fortitude int `json:"fortitude"`
	Reflex    int `json:"reflex"`
	Will      int `json:"will"`
}

// Attributes groups an actor's defensive and derived statistics.
type Attributes struct {
	HP          Stat       `json:"hp"`
	AC          Stat       `json:"ac"`
	Speed       Stat       `json:"speed"`
	Perception  Perception `json:"perception"`
	Saves       Saves      `json:"saves"`
	Immunities  []string   `json:"immunities,omitempty"`
	Weaknesses  []Stat     `json:"weaknesses,omitempty"`
	Resistances []Stat     `json:"resistances,omitempty"`
}

// Skill is a named skill bonus.
type Skill struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DamageComponent is one damage roll of a strike.
type DamageComponent struct {
	Formula    string `json:"formula"`
	DamageType string `json:"damageType"`
}

// Strike is a canonical attack entry.
type Strike struct {
	Name    string            `json:"name"`
	Bonus   int               `json:"bonus"`
	Damage  []DamageComponent `json:"damage"`
	Traits  []string          `json:"traits,omitempty"`
	Effects []string          `json:"effects,omitempty"`
}

// ActorAction is an ability owned by an actor (not a standalone record).
type ActorAction struct {
	Name         string     `json:"name"`
	ActionType   ActionCost `json:"actionType"`
	Traits       []string   `json:"traits,omitempty"`
	Trigger      string     `json:"trigger,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Description  string     `json:"description,omitempty"`
}

// InventoryItem is one carried item.
type InventoryItem struct {
	Slug        string   `json:"slug,omitempty"`
	Name        string   `json:"name"`
	Category    ItemType `json:"category"`
	Quantity    int      `json:"quantity"`
	Level       int      `json:"level"`
	Description string   `json:"description,omitempty"`
}

// SpellEntry is one spell inside a spellcasting entry. Level 0 means cantrip.
type SpellEntry struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Spellcasting is one spellcasting entry with its ordered spell list.
type Spellcasting struct {
	Name        string       `json:"name"`
	Tradition   string       `json:"tradition"`
	CastingType string       `json:"castingType"`
	Bonus       int          `json:"bonus"`
	DC          int          `json:"dc"`
	Spells      []SpellEntry `json:"spells,omitempty"`
}

// Actor is a canonical creature record.
type Actor struct {
	Envelope
	ActorType    string          `json:"actorType"`
	Level        int             `json:"level"`
	Size         string          `json:"size"`
	Rarity       string          `json:"rarity,omitempty"`
	Traits       []string        `json:"traits,omitempty"`
	Languages    []string        `json:"languages,omitempty"`
	Abilities    Abilities       `json:"abilities"`
	Attributes   Attributes      `json:"attributes"`
	Skills       []Skill         `json:"skills,omitempty"`
	Strikes      []Strike        `json:"strikes,omitempty"`
	Actions      []ActorAction   `json:"actions,omitempty"`
	Inventory    []InventoryItem `json:"inventory,omitempty"`
	Spellcasting []Spellcasting  `json:"spellcasting,omitempty"`
	Description  string          `json:"description,omitempty"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Sluggify derives a URL-safe identity key from a name: lowercase,
// non-alphanumeric runs collapsed to single hyphens, trimmed.
func Sluggify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EnsureSlug fills the slug from the name when no explicit slug was set.
func (e *Envelope) EnsureSlug() {
	if strings.TrimSpace(e.Slug) == "" {
		e.Slug = Sluggify(e.Name)
	}
}
