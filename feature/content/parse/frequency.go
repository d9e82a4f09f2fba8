package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Frequency is a parsed mechanical use limit: Max uses per interval.
type Frequency struct {
	Max int    `json:"max"`
	Per string `json:"per"`
}

// Canonical interval identifiers understood by the host.
const (
	PerRound     = "round"
	PerTurn      = "turn"
	PerMinute    = "PT1M"
	PerTenMinute = "PT10M"
	PerHour      = "PT1H"
	PerDay       = "day"
)

var countWords = map[string]int{
	"once":   1,
	"twice":  2,
	"thrice": 3,
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
}

var freqDigits = regexp.MustCompile(`\b(\d+)\b`)

// ParseFrequency parses phrases of the form "<count> per <unit>" or
// "<count>/<unit>". The count may be a digit or a number word up to ten.
// It returns nil when no interval is recognized; callers must treat nil as
// "no mechanical frequency", not as an error.
func ParseFrequency(text string) *Frequency {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "/", " per ")

	per, perIdx := matchInterval(s)
	if per == "" {
		return nil
	}

	max := 1
	// The count precedes the interval phrase ("twice per day", "3/round").
	head := s[:perIdx]
	found := false
	for _, tok := range strings.FieldsFunc(head, func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if n, ok := countWords[tok]; ok {
			max = n
			found = true
			break
		}
	}
	if !found {
		if m := freqDigits.FindStringSubmatch(head); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				max = n
			}
		}
	}

	return &Frequency{Max: max, Per: per}
}

// matchInterval finds the first recognized interval phrase and reports the
// byte offset at which it starts. Longer phrases are checked first so
// "10 minutes" is not shadowed by "minute".
func matchInterval(s string) (string, int) {
	phrases := []struct {
		phrase string
		per    string
	}{
		{"10 minutes", PerTenMinute},
		{"10 minute", PerTenMinute},
		{"ten minutes", PerTenMinute},
		{"minute", PerMinute},
		{"hour", PerHour},
		{"round", PerRound},
		{"turn", PerTurn},
		{"day", PerDay},
	}
	for _, p := range phrases {
		if idx := strings.Index(s, p.phrase); idx >= 0 {
			return p.per, idx
		}
	}
	return "", -1
}
