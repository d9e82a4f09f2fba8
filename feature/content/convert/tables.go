package convert

import (
	"strings"

	"content-forge/feature/content/models"
)

// Host document type tags for root records.
const (
	DocTypeNPC    = "npc"
	DocTypeAction = "action"
)

// hostActionType maps a canonical action cost to the host actionType tag
// plus the numeric action count (nil for free actions and reactions).
func hostActionType(cost models.ActionCost) (string, *int) {
	one, two, three := 1, 2, 3
	switch cost {
	case models.CostOneAction:
		return "action", &one
	case models.CostTwoActions:
		return "action", &two
	case models.CostThreeActions:
		return "action", &three
	case models.CostReaction:
		return "reaction", nil
	default:
		return "free", nil
	}
}

// canonicalActionCost is the reverse mapping. Unknown host values fall back
// to free rather than failing.
func canonicalActionCost(actionType string, actions *int) models.ActionCost {
	switch actionType {
	case "reaction":
		return models.CostReaction
	case "action", "":
		if actions == nil {
			return models.CostFree
		}
		switch *actions {
		case 1:
			return models.CostOneAction
		case 2:
			return models.CostTwoActions
		case 3:
			return models.CostThreeActions
		}
	}
	return models.CostFree
}

// hostItemType maps canonical item categories onto the host's narrower
// item type set. Every canonical value has exactly one target.
var hostItemType = map[models.ItemType]string{
	models.ItemWeapon:     "weapon",
	models.ItemArmor:      "armor",
	models.ItemEquipment:  "equipment",
	models.ItemConsumable: "consumable",
	models.ItemFeat:       "feat",
	models.ItemSpell:      "spell",
	models.ItemWand:       "consumable",
	models.ItemStaff:      "equipment",
	models.ItemOther:      "equipment",
}

// CanonicalItemType maps host item types back. Unrecognized values fall
// back to other.
func CanonicalItemType(hostType string) models.ItemType {
	switch hostType {
	case "weapon":
		return models.ItemWeapon
	case "armor":
		return models.ItemArmor
	case "equipment":
		return models.ItemEquipment
	case "consumable":
		return models.ItemConsumable
	case "feat":
		return models.ItemFeat
	case "spell":
		return models.ItemSpell
	default:
		return models.ItemOther
	}
}

// hostSize maps canonical size names to host size tags.
func hostSize(size string) string {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "tiny":
		return "tiny"
	case "small":
		return "sm"
	case "large":
		return "lg"
	case "huge":
		return "huge"
	case "gargantuan":
		return "grg"
	default:
		return "med"
	}
}

// canonicalSize reverses hostSize; unknown tags read as medium.
func canonicalSize(tag string) string {
	switch tag {
	case "tiny":
		return "tiny"
	case "sm":
		return "small"
	case "lg":
		return "large"
	case "huge":
		return "huge"
	case "grg":
		return "gargantuan"
	default:
		return "medium"
	}
}

// tokenFootprint resolves the token grid footprint from actor size. Every
// size has a mapping; the default branch is terminal.
func tokenFootprint(size string) models.TokenDefaults {
	switch hostSize(size) {
	case "lg":
		return models.TokenDefaults{Width: 2, Height: 2}
	case "huge":
		return models.TokenDefaults{Width: 3, Height: 3}
	case "grg":
		return models.TokenDefaults{Width: 4, Height: 4}
	default:
		return models.TokenDefaults{Width: 1, Height: 1}
	}
}

// mysteryIcon is the host's generic placeholder portrait.
const mysteryIcon = "icons/svg/mystery-man.svg"

// defaultIconPrefix marks per-type stock icons the host assigns when the
// user never chose an image.
const defaultIconPrefix = "systems/default-icons/"

// hostActorType maps a canonical actor type to the host document type.
// The host only knows npc, character and hazard; anything else falls back
// to npc.
func hostActorType(actorType string) string {
	switch actorType {
	case DocTypeNPC, "character", "hazard":
		return actorType
	default:
		return DocTypeNPC
	}
}

// defaultPortrait resolves the stock portrait per actor type with a
// terminal default branch.
func defaultPortrait(actorType string) string {
	switch actorType {
	case "npc":
		return defaultIconPrefix + "npc.svg"
	case "character":
		return defaultIconPrefix + "character.svg"
	case "hazard":
		return defaultIconPrefix + "hazard.svg"
	default:
		return mysteryIcon
	}
}

// IsPlaceholderImage reports whether an image path is a known placeholder,
// so normalization can distinguish "never set" from "user chose this".
func IsPlaceholderImage(img string) bool {
	if img == "" || img == mysteryIcon {
		return true
	}
	return strings.HasPrefix(img, defaultIconPrefix)
}

// normalizeRarity defaults empty or unknown rarity to common.
func normalizeRarity(rarity string) string {
	switch strings.ToLower(strings.TrimSpace(rarity)) {
	case "uncommon":
		return "uncommon"
	case "rare":
		return "rare"
	case "unique":
		return "unique"
	default:
		return "common"
	}
}
