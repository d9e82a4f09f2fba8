package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"content-forge/feature/content/models"
)

var (
	acuityParen = regexp.MustCompile(`\((precise|imprecise|vague)\)`)
	rangeExpr   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(feet|foot|ft\.?|yards?|yd\.?|meters?|m\b|miles?|mi\.?)`)
	anyParen    = regexp.MustCompile(`\([^)]*\)`)
)

// Unit conversion factors to feet, the canonical base unit.
var rangeUnits = map[string]float64{
	"feet": 1, "foot": 1, "ft": 1, "ft.": 1,
	"yard": 3, "yards": 3, "yd": 3, "yd.": 3,
	"meter": 3.28084, "meters": 3.28084, "m": 3.28084,
	"mile": 5280, "miles": 5280, "mi": 5280, "mi.": 5280,
}

// ParseSense parses a free-text sense like "scent (imprecise) 30 feet".
// The acuity token comes from the first parenthetical matching
// precise/imprecise/vague; the range is converted to feet; both are
// stripped before the sense-type slug is derived from the remaining text.
// It returns nil for unparseable input.
func ParseSense(text string) *models.Sense {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}

	sense := &models.Sense{}

	if m := acuityParen.FindStringSubmatch(s); m != nil {
		sense.Acuity = m[1]
		s = strings.Replace(s, m[0], " ", 1)
	}

	if m := rangeExpr.FindStringSubmatch(s); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			unit := strings.TrimSpace(m[2])
			factor, ok := rangeUnits[unit]
			if !ok {
				factor = 1
			}
			sense.Range = int(math.Round(value * factor))
			s = strings.Replace(s, m[0], " ", 1)
		}
	}

	// Leftover parentheticals carry no structure; drop them before slugging.
	s = anyParen.ReplaceAllString(s, " ")
	sense.Type = models.Sluggify(s)
	if sense.Type == "" {
		return nil
	}
	return sense
}

// ParseSenses parses a comma-separated sense list, silently dropping
// fragments that cannot be parsed.
func ParseSenses(text string) []models.Sense {
	var senses []models.Sense
	for _, part := range strings.Split(text, ",") {
		if sense := ParseSense(part); sense != nil {
			senses = append(senses, *sense)
		}
	}
	return senses
}
