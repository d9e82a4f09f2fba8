package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"content-forge/feature/content/models"
)

var coinExpr = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(pp|gp|sp|cp)`)

// Coin values expressed in copper pieces.
const (
	cpPerPP = 1000
	cpPerGP = 100
	cpPerSP = 10
)

// ParsePrice parses free-text like "3 gp, 5 sp" into a single decimal gold
// value. A bare number is read as gold. It returns nil when no parseable
// amount exists, which is distinct from a price of zero.
func ParsePrice(text string) *float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}

	matches := coinExpr.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		// Accept a bare decimal as gold.
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
			rounded := roundCents(v)
			return &rounded
		}
		return nil
	}

	total := 0.0
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "pp":
			total += value * 10
		case "gp":
			total += value
		case "sp":
			total += value / 10
		case "cp":
			total += value / 100
		}
	}
	rounded := roundCents(total)
	return &rounded
}

// CoinsToDecimal converts the host four-denomination shape to a single
// decimal gold value, rounded to two places.
func CoinsToDecimal(coins models.Coins) float64 {
	cp := coins.PP*cpPerPP + coins.GP*cpPerGP + coins.SP*cpPerSP + coins.CP
	return roundCents(float64(cp) / float64(cpPerGP))
}

// DecimalToCoins converts a decimal gold value to the host denomination
// shape. Sub-cent amounts are lost to rounding.
func DecimalToCoins(value float64) models.Coins {
	if value < 0 {
		value = 0
	}
	cp := int(math.Round(value * cpPerGP))
	coins := models.Coins{}
	coins.PP = cp / cpPerPP
	cp -= coins.PP * cpPerPP
	coins.GP = cp / cpPerGP
	cp -= coins.GP * cpPerGP
	coins.SP = cp / cpPerSP
	cp -= coins.SP * cpPerSP
	coins.CP = cp
	return coins
}

// roundCents rounds to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
