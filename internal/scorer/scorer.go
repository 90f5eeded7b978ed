// Package scorer computes the 0-100 renovation-intent score for a lead.
//
// The score is an additive fold over ordered tiers. Each tier fires at
// most once (first qualifying bucket wins within a tier) and every
// point-adding branch records exactly one human-readable reason carrying
// the concrete values used, so the explanation is reproducible from the
// score alone. Reasons accumulate in tier-evaluation order; consumers
// display them as "why this lead scored X".
package scorer

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

// Strongest signal: a permit whose type or description reads like
// interior remodeling work.
var remodelKeywords = []string{
	"remodel", "renovation", "addition", "alteration", "interior",
	"kitchen", "bathroom", "flooring", "cabinet", "tile",
}

var roofKeywords = []string{"roof", "re-roof", "reroof"}

var usd = message.NewPrinter(language.AmericanEnglish)

// Score computes the renovation-intent score and reason list for a lead
// with its associated permits, evaluated as of the given time. Pure:
// identical inputs always produce identical output.
func Score(lead *model.Lead, permits []model.Permit, asOf time.Time) (int, []string) {
	score := 0
	var reasons []string

	// Tier 1: active permits.
	if hasPermitKeyword(permits, remodelKeywords, true) {
		score += 25
		reasons = append(reasons, "Active remodeling permit found")
	}
	if hasPermitKeyword(permits, roofKeywords, false) {
		score += 15
		reasons = append(reasons, "Roofing permit (may need interior work too)")
	}

	// Tier 2: recent purchase.
	if lead.LastSaleDate != nil {
		days := int(asOf.Sub(*lead.LastSaleDate).Hours() / 24)
		if days <= 365 {
			score += 20
			reasons = append(reasons, fmt.Sprintf("Purchased %d days ago (new buyer)", days))
		} else if days <= 730 {
			score += 10
			reasons = append(reasons, "Purchased within last 2 years")
		}
	}

	// Tier 2: below-market purchase.
	if lead.LastSalePrice != nil && lead.MarketValue != nil && *lead.MarketValue > 0 {
		ratio := *lead.LastSalePrice / *lead.MarketValue
		if ratio < 0.75 {
			score += 15
			reasons = append(reasons, fmt.Sprintf("Bought at %.0f%% of market value (fixer-upper)", ratio*100))
		} else if ratio < 0.85 {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Bought below market value (%.0f%%)", ratio*100))
		}
	}

	// Tier 3: age of home, largest threshold first.
	if lead.YearBuilt != nil {
		age := asOf.Year() - *lead.YearBuilt
		switch {
		case age >= 30:
			score += 20
			reasons = append(reasons, fmt.Sprintf("Home is %d years old (likely needs major updates)", age))
		case age >= 20:
			score += 15
			reasons = append(reasons, fmt.Sprintf("Home is %d years old (aging systems)", age))
		case age >= 15:
			score += 8
			reasons = append(reasons, fmt.Sprintf("Home is %d years old", age))
		}
	}

	// Tier 3: no homestead exemption. Unknown homestead status scores
	// nothing; only an explicit false counts.
	if lead.Homestead != nil && !*lead.Homestead {
		score += 10
		reasons = append(reasons, "No homestead exemption (likely investor)")
	}

	// Tier 3: assessed value.
	if lead.AssessedValue != nil {
		switch v := *lead.AssessedValue; {
		case v >= 500000:
			score += 10
			reasons = append(reasons, usd.Sprintf("High-value property ($%d)", int64(v)))
		case v >= 300000:
			score += 5
			reasons = append(reasons, usd.Sprintf("Mid-high value property ($%d)", int64(v)))
		}
	}

	// Tier 3: long ownership with no permit activity.
	if lead.LastSaleDate != nil {
		yearsOwned := asOf.Sub(*lead.LastSaleDate).Hours() / 24 / 365
		if yearsOwned >= 15 && len(permits) == 0 {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Owned %.0f years with no permits", yearsOwned))
		}
	}

	// Negative signals, applied after all positive tiers.
	if lead.DoNotCall {
		score -= 50
		reasons = append(reasons, "NEGATIVE: On do-not-call list")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

// hasPermitKeyword reports whether any permit matches one of the
// keywords. When includeType is set the permit type is searched along
// with the description.
func hasPermitKeyword(permits []model.Permit, keywords []string, includeType bool) bool {
	for _, p := range permits {
		text := strings.ToLower(p.Description)
		if includeType {
			text += " " + strings.ToLower(p.PermitType)
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
