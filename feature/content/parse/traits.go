package parse

import (
	"strings"

	"content-forge/feature/content/models"
)

// TraitSet is the set of trait keys the host recognizes. It is always
// supplied explicitly by the caller; an empty set means the capability is
// unavailable and every trait is treated as recognized.
type TraitSet map[string]struct{}

// NewTraitSet builds a TraitSet from slugged trait keys.
func NewTraitSet(keys ...string) TraitSet {
	set := make(TraitSet, len(keys))
	for _, k := range keys {
		set[models.Sluggify(k)] = struct{}{}
	}
	return set
}

// PartitionTraits splits traits into recognized and overflow lists against
// the allowed set. Trait keys are slugged for comparison; duplicates are
// dropped case-insensitively, keeping first-seen order.
func PartitionTraits(traits []string, allowed TraitSet) (known, extra []string) {
	seen := make(map[string]struct{}, len(traits))
	for _, raw := range traits {
		key := models.Sluggify(raw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if len(allowed) == 0 {
			known = append(known, key)
			continue
		}
		if _, ok := allowed[key]; ok {
			known = append(known, key)
		} else {
			extra = append(extra, strings.TrimSpace(raw))
		}
	}
	return known, extra
}

// SplitList accepts either a delimiter-separated string or an already-split
// list and returns trimmed entries, de-duplicated case-insensitively while
// preserving first-seen casing.
func SplitList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';'
		}) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
