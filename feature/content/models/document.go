package models

// Host-side document shapes. The host store wraps most scalar fields in
// {value: X} objects; these structs mirror that layout with explicit field
// paths so no speculative field probing is needed.

// ValueStr is the host's {value: string} wrapper.
type ValueStr struct {
	Value string `json:"value"`
}

// ValueInt is the host's {value: int} wrapper.
type ValueInt struct {
	Value int `json:"value"`
}

// ValueIntPtr wraps an optional integer. A nil value is serialized as null,
// which the host treats as "not applicable" (e.g. free actions).
type ValueIntPtr struct {
	Value *int `json:"value"`
}

// ValueStrings is the host's {value: []string} wrapper.
type ValueStrings struct {
	Value []string `json:"value"`
}

// TraitsBlock carries trait values plus rarity and any unrecognized traits.
type TraitsBlock struct {
	Value  []string `json:"value"`
	Rarity string   `json:"rarity,omitempty"`
	Custom string   `json:"custom,omitempty"`
}

// Document is a root host record plus its embedded children.
type Document struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Img    string `json:"img,omitempty"`
	System any    `json:"system"`
	// Items holds the embedded records (strikes, abilities, inventory,
	// spellcasting entries, spells) in creation order.
	Items []Embedded `json:"items,omitempty"`
	// Token holds display defaults resolved from the size lookup table.
	Token *TokenDefaults `json:"prototypeToken,omitempty"`
}

// TokenDefaults is the token footprint derived from actor size.
type TokenDefaults struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Embedded is one child record owned by a root document.
type Embedded struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Img    string `json:"img,omitempty"`
	Sort   int    `json:"sort,omitempty"`
	System any    `json:"system"`
}

// Embedded record type tags used by the host.
const (
	EmbeddedMelee        = "melee"
	EmbeddedAction       = "action"
	EmbeddedLore         = "lore"
	EmbeddedSpell        = "spell"
	EmbeddedSpellcasting = "spellcastingEntry"
)

// ActorSystem is the root system object of an actor document. Skills are
// not part of the root object; each skill is its own embedded lore record.
type ActorSystem struct {
	Slug       string        `json:"slug,omitempty"`
	Abilities  DocAbilities  `json:"abilities"`
	Attributes DocAttributes `json:"attributes"`
	Saves      DocSaves      `json:"saves"`
	Details    DocDetails    `json:"details"`
	Traits     DocTraits     `json:"traits"`
}

// DocAbilities nests each ability modifier under its {mod: X} wrapper.
type DocAbilities struct {
	Str AbilityMod `json:"str"`
	Dex AbilityMod `json:"dex"`
	Con AbilityMod `json:"con"`
	Int AbilityMod `json:"int"`
	Wis AbilityMod `json:"wis"`
	Cha AbilityMod `json:"cha"`
}

// AbilityMod is the host's {mod: X} ability wrapper.
type AbilityMod struct {
	Mod int `json:"mod"`
}

// HPBlock is the host hit-point shape.
type HPBlock struct {
	Value   int    `json:"value"`
	Max     int    `json:"max"`
	Details string `json:"details,omitempty"`
}

// ACBlock is the host armor-class shape.
type ACBlock struct {
	Value   int    `json:"value"`
	Details string `json:"details,omitempty"`
}

// SpeedBlock is the host speed shape.
type SpeedBlock struct {
	Value   int    `json:"value"`
	Details string `json:"details,omitempty"`
}

// DocSense is one sense entry in host shape.
type DocSense struct {
	Type   string `json:"type"`
	Acuity string `json:"acuity,omitempty"`
	Range  int    `json:"range,omitempty"`
}

// PerceptionBlock is the host perception shape including senses.
type PerceptionBlock struct {
	Value   int        `json:"value"`
	Details string     `json:"details,omitempty"`
	Senses  []DocSense `json:"senses,omitempty"`
}

// IWREntry is one immunity/weakness/resistance entry.
type IWREntry struct {
	Type  string `json:"type"`
	Value int    `json:"value,omitempty"`
}

// DocAttributes is the host attribute block.
type DocAttributes struct {
	HP          HPBlock         `json:"hp"`
	AC          ACBlock         `json:"ac"`
	Speed       SpeedBlock      `json:"speed"`
	Perception  PerceptionBlock `json:"perception"`
	Immunities  []IWREntry      `json:"immunities,omitempty"`
	Weaknesses  []IWREntry      `json:"weaknesses,omitempty"`
	Resistances []IWREntry      `json:"resistances,omitempty"`
}

// DocSaves wraps each save modifier.
type DocSaves struct {
	Fortitude ValueInt `json:"fortitude"`
	Reflex    ValueInt `json:"reflex"`
	Will      ValueInt `json:"will"`
}

// DocDetails carries level and narrative text.
type DocDetails struct {
	Level       ValueInt `json:"level"`
	PublicNotes string   `json:"publicNotes,omitempty"`
}

// DocTraits carries traits, rarity, size and languages.
type DocTraits struct {
	Value     []string     `json:"value"`
	Rarity    string       `json:"rarity,omitempty"`
	Size      ValueStr     `json:"size"`
	Languages ValueStrings `json:"languages"`
}

// Coins is the host four-denomination currency shape.
type Coins struct {
	PP int `json:"pp"`
	GP int `json:"gp"`
	SP int `json:"sp"`
	CP int `json:"cp"`
}

// PriceBlock wraps coins the way host items store prices.
type PriceBlock struct {
	Value Coins `json:"value"`
}

// ItemSystem is the root system object of a standalone item document and
// the embedded system object of inventory records.
type ItemSystem struct {
	Slug        string      `json:"slug,omitempty"`
	Description ValueStr    `json:"description"`
	Level       ValueInt    `json:"level"`
	Price       *PriceBlock `json:"price,omitempty"`
	Quantity    int         `json:"quantity,omitempty"`
	Traits      TraitsBlock `json:"traits"`
}

// ActionSystem is the embedded system object of action records.
type ActionSystem struct {
	Slug         string        `json:"slug,omitempty"`
	ActionType   ValueStr      `json:"actionType"`
	Actions      ValueIntPtr   `json:"actions"`
	Description  ValueStr      `json:"description"`
	Requirements ValueStr      `json:"requirements"`
	Trigger      ValueStr      `json:"trigger"`
	Frequency    *DocFrequency `json:"frequency,omitempty"`
	Traits       TraitsBlock   `json:"traits"`
}

// DocFrequency is a parsed mechanical frequency: max uses per interval.
type DocFrequency struct {
	Max int    `json:"max"`
	Per string `json:"per"`
}

// DamageRoll is one damage component of a strike.
type DamageRoll struct {
	Damage     string `json:"damage"`
	DamageType string `json:"damageType"`
}

// StrikeSystem is the embedded system object of melee records.
type StrikeSystem struct {
	Slug        string                `json:"slug,omitempty"`
	Bonus       ValueInt              `json:"bonus"`
	DamageRolls map[string]DamageRoll `json:"damageRolls"`
	Effects     ValueStrings          `json:"attackEffects"`
	Traits      TraitsBlock           `json:"traits"`
}

// LoreSystem is the embedded system object of skill (lore) records.
type LoreSystem struct {
	Mod ValueInt `json:"mod"`
}

// SpellcastingSystem is the embedded system object of spellcasting entries.
type SpellcastingSystem struct {
	Tradition ValueStr `json:"tradition"`
	Prepared  ValueStr `json:"prepared"`
	SpellDC   SpellDC  `json:"spelldc"`
}

// SpellDC carries the entry's attack bonus and save DC.
type SpellDC struct {
	Value int `json:"value"`
	DC    int `json:"dc"`
}

// SpellSystem is the embedded system object of spell records. Location
// references the owning spellcasting entry's identifier.
type SpellSystem struct {
	Slug        string      `json:"slug,omitempty"`
	Level       ValueInt    `json:"level"`
	Description ValueStr    `json:"description"`
	Location    ValueStr    `json:"location"`
	Traits      TraitsBlock `json:"traits"`
}
